package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"charity-auction/internal/config"
	"charity-auction/internal/ledger"
)

// Intent type names accepted by the transaction builder. Each maps to one
// entry function of the deployed protocol module.
const (
	IntentPlaceBid            = "place_bid"
	IntentCreateAuction       = "create_auction"
	IntentSettleAuction       = "settle_auction"
	IntentRegisterCharity     = "register_charity"
	IntentCreateDisbursement  = "create_disbursement_request"
	IntentDisburseFunds       = "disburse_funds"
	IntentApproveDisbursement = "admin_approve_disbursement"
	IntentRejectDisbursement  = "admin_reject_disbursement"
	IntentVerifyCharityAI     = "verify_charity_ai"
	IntentApproveCharityFinal = "approve_charity_final"
)

// CallArg is one ordered argument of a move call, tagged by how the wallet
// must encode it.
type CallArg struct {
	Kind  string      `json:"kind"` // object | pure_string | pure_u64 | pure_u8 | pure_address | gas_coin
	Value interface{} `json:"value"`
}

// MoveCall is the unsigned transaction payload handed back to the caller's
// wallet for signing and execution. The service never holds user keys.
type MoveCall struct {
	Target    string    `json:"target"`
	Arguments []CallArg `json:"arguments"`
}

// BuildRequest is a typed transaction intent as received over HTTP.
type BuildRequest struct {
	Type        string `json:"type" binding:"required"`
	AuctionID   string `json:"auction_id"`
	CharityID   string `json:"charity_id"`
	ProposalID  string `json:"proposal_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	ImageURL    string `json:"image_url"`
	Reason      string `json:"reason"`
	Amount      string `json:"amount"` // display decimal, e.g. "12.34"
	DurationMs  uint64 `json:"duration_ms"`
	Wallet      string `json:"wallet"`
	FeeTier     uint8  `json:"fee_tier"`
}

// TxService builds ledger transactions from typed intents and submits
// pre-signed ones, triggering the scoped view-model refresh on success.
type TxService struct {
	submitter ledger.Submitter
	sync      *SyncService
	ledger    config.LedgerConfig
	log       *logrus.Entry
}

// NewTxService creates a new TxService
func NewTxService(submitter ledger.Submitter, sync *SyncService, cfg *config.Config, logger *logrus.Logger) *TxService {
	return &TxService{
		submitter: submitter,
		sync:      sync,
		ledger:    cfg.Ledger,
		log:       logger.WithField("component", "tx"),
	}
}

func objectArg(id string) CallArg    { return CallArg{Kind: "object", Value: id} }
func stringArg(s string) CallArg     { return CallArg{Kind: "pure_string", Value: s} }
func u64Arg(n uint64) CallArg        { return CallArg{Kind: "pure_u64", Value: strconv.FormatUint(n, 10)} }
func u8Arg(n uint8) CallArg          { return CallArg{Kind: "pure_u8", Value: n} }
func addressArg(addr string) CallArg { return CallArg{Kind: "pure_address", Value: addr} }
func gasCoinArg(mist uint64) CallArg {
	return CallArg{Kind: "gas_coin", Value: strconv.FormatUint(mist, 10)}
}

// Build turns a typed intent into the unsigned move-call payload.
func (t *TxService) Build(req BuildRequest) (*MoveCall, error) {
	switch req.Type {
	case IntentPlaceBid:
		if req.AuctionID == "" {
			return nil, fmt.Errorf("auction_id is required")
		}
		mist, err := ledger.ParseDisplayAmount(req.Amount)
		if err != nil || mist == 0 {
			return nil, fmt.Errorf("invalid bid amount %q", req.Amount)
		}
		return &MoveCall{
			Target: t.ledger.Target("place_bid"),
			Arguments: []CallArg{
				objectArg(t.ledger.GlobalConfigID),
				objectArg(req.AuctionID),
				gasCoinArg(mist),
				objectArg(t.ledger.ClockID),
			},
		}, nil

	case IntentCreateAuction:
		if req.CharityID == "" {
			return nil, fmt.Errorf("charity_id is required")
		}
		if req.Name == "" {
			return nil, fmt.Errorf("name is required")
		}
		reserve, err := ledger.ParseDisplayAmount(req.Amount)
		if err != nil || reserve == 0 {
			return nil, fmt.Errorf("invalid reserve price %q", req.Amount)
		}
		if req.DurationMs == 0 {
			return nil, fmt.Errorf("duration_ms is required")
		}
		return &MoveCall{
			Target: t.ledger.Target("create_auction"),
			Arguments: []CallArg{
				objectArg(req.CharityID),
				stringArg(req.Name),
				stringArg(req.ImageURL),
				stringArg(req.Description),
				u64Arg(reserve),
				u64Arg(req.DurationMs),
				objectArg(t.ledger.ClockID),
			},
		}, nil

	case IntentSettleAuction:
		if req.AuctionID == "" || req.CharityID == "" {
			return nil, fmt.Errorf("auction_id and charity_id are required")
		}
		return &MoveCall{
			Target: t.ledger.Target("settle_auction"),
			Arguments: []CallArg{
				objectArg(t.ledger.GlobalConfigID),
				objectArg(req.CharityID),
				objectArg(req.AuctionID),
				objectArg(t.ledger.ClockID),
			},
		}, nil

	case IntentRegisterCharity:
		if req.Wallet == "" || req.Name == "" {
			return nil, fmt.Errorf("wallet and name are required")
		}
		return &MoveCall{
			Target: t.ledger.Target("register_charity"),
			Arguments: []CallArg{
				addressArg(req.Wallet),
				stringArg(req.Name),
				stringArg(req.Description),
				stringArg(req.Website),
				stringArg(req.ImageURL),
				u8Arg(req.FeeTier),
			},
		}, nil

	case IntentCreateDisbursement:
		if req.CharityID == "" {
			return nil, fmt.Errorf("charity_id is required")
		}
		if req.Reason == "" {
			return nil, fmt.Errorf("reason is required")
		}
		mist, err := ledger.ParseDisplayAmount(req.Amount)
		if err != nil || mist == 0 {
			return nil, fmt.Errorf("invalid disbursement amount %q", req.Amount)
		}
		return &MoveCall{
			Target: t.ledger.Target("create_disbursement_request"),
			Arguments: []CallArg{
				objectArg(req.CharityID),
				u64Arg(mist),
				stringArg(req.Reason),
			},
		}, nil

	case IntentDisburseFunds:
		if req.CharityID == "" {
			return nil, fmt.Errorf("charity_id is required")
		}
		if req.Wallet == "" {
			return nil, fmt.Errorf("wallet is required")
		}
		mist, err := ledger.ParseDisplayAmount(req.Amount)
		if err != nil || mist == 0 {
			return nil, fmt.Errorf("invalid disbursement amount %q", req.Amount)
		}
		return &MoveCall{
			Target: t.ledger.Target("disburse_funds"),
			Arguments: []CallArg{
				objectArg(t.ledger.GlobalConfigID),
				objectArg(req.CharityID),
				u64Arg(mist),
				addressArg(req.Wallet),
			},
		}, nil

	case IntentApproveDisbursement:
		if req.CharityID == "" || req.ProposalID == "" {
			return nil, fmt.Errorf("charity_id and proposal_id are required")
		}
		return &MoveCall{
			Target: t.ledger.Target("admin_approve_disbursement"),
			Arguments: []CallArg{
				objectArg(t.ledger.AdminCapID),
				objectArg(req.CharityID),
				objectArg(req.ProposalID),
			},
		}, nil

	case IntentRejectDisbursement:
		if req.ProposalID == "" {
			return nil, fmt.Errorf("proposal_id is required")
		}
		if req.Reason == "" {
			return nil, fmt.Errorf("reason is required")
		}
		return &MoveCall{
			Target: t.ledger.Target("admin_reject_disbursement"),
			Arguments: []CallArg{
				objectArg(t.ledger.AdminCapID),
				objectArg(req.ProposalID),
				stringArg(req.Reason),
			},
		}, nil

	case IntentVerifyCharityAI:
		if req.CharityID == "" {
			return nil, fmt.Errorf("charity_id is required")
		}
		return &MoveCall{
			Target: t.ledger.Target("verify_charity_ai"),
			Arguments: []CallArg{
				objectArg(t.ledger.AdminCapID),
				objectArg(req.CharityID),
			},
		}, nil

	case IntentApproveCharityFinal:
		if req.CharityID == "" {
			return nil, fmt.Errorf("charity_id is required")
		}
		return &MoveCall{
			Target: t.ledger.Target("approve_charity_final"),
			Arguments: []CallArg{
				objectArg(t.ledger.AdminCapID),
				objectArg(req.CharityID),
			},
		}, nil
	}

	return nil, fmt.Errorf("unknown intent type %q", req.Type)
}

// ScopesFor maps an intent type to the view-model resources it invalidates.
func ScopesFor(intentType string) []Resource {
	switch intentType {
	case IntentPlaceBid, IntentCreateAuction, IntentSettleAuction:
		return []Resource{ResourceAuctions}
	case IntentRegisterCharity, IntentVerifyCharityAI, IntentApproveCharityFinal, IntentDisburseFunds:
		return []Resource{ResourceCharities}
	case IntentCreateDisbursement, IntentApproveDisbursement, IntentRejectDisbursement:
		return []Resource{ResourceProposals, ResourceCharities}
	}
	return nil
}

// Submit forwards pre-signed transaction bytes to the ledger. The outcome is
// exactly one of success-with-digest or failure-with-message; nothing is
// retried automatically and the ledger's failure message is passed through
// verbatim. On success the scoped refresh runs in the background.
func (t *TxService) Submit(ctx context.Context, intentType, txBytes string, signatures []string) (string, error) {
	if txBytes == "" || len(signatures) == 0 {
		return "", fmt.Errorf("tx_bytes and signatures are required")
	}

	digest, err := t.submitter.ExecuteTransaction(ctx, txBytes, signatures)
	if err != nil {
		return "", err
	}

	t.log.WithFields(logrus.Fields{"digest": digest, "intent": intentType}).Info("transaction submitted")
	t.Confirm(digest, ScopesFor(intentType)...)
	return digest, nil
}

// Confirm waits for a digest in the background and then refreshes the given
// resources. Used after Submit and by the explicit confirm endpoint when the
// wallet executed the transaction itself.
func (t *TxService) Confirm(digest string, scopes ...Resource) {
	if len(scopes) == 0 {
		return
	}
	go func() {
		if err := t.sync.RefreshAfter(context.Background(), digest, scopes...); err != nil {
			t.log.WithError(err).WithField("digest", digest).Warn("post-transaction refresh failed")
		}
	}()
}
