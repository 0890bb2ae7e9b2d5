package models

// Disbursement proposal status values as encoded on-chain. Only pending is
// explicitly filtered by the admin queue; approved/rejected follow the
// contract's small-integer encoding.
const (
	ProposalStatusPending  = 0
	ProposalStatusApproved = 1
	ProposalStatusRejected = 2
)

// FallbackCharityName is shown for a proposal whose owning charity is not in
// the current sync batch. The record is still emitted, never dropped.
const FallbackCharityName = "Anonymous Org"

// DisbursementProposal is a charity owner's request to withdraw vault funds,
// resolved by an admin.
type DisbursementProposal struct {
	ID            string `json:"id"`
	CharityID     string `json:"charity_id"`
	CharityName   string `json:"charity_name"`
	AmountMist    uint64 `json:"amount_mist"`
	AmountDisplay string `json:"amount_display"`
	Justification string `json:"justification"`
	Status        int    `json:"status"`
	StatusLabel   string `json:"status_label"`
	AdminFeedback string `json:"admin_feedback"`
}

// StatusLabelFor maps a proposal status code to its display label.
func StatusLabelFor(status int) string {
	switch status {
	case ProposalStatusPending:
		return "pending"
	case ProposalStatusApproved:
		return "approved"
	case ProposalStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
