package services

import (
	"github.com/sirupsen/logrus"

	"charity-auction/internal/ipfs"
	"charity-auction/internal/ledger"
	"charity-auction/internal/models"
)

// ViewModelBuilder turns raw ledger objects and events into the domain
// records the UI renders. It owns no state of its own; every build starts
// from a fresh batch.
type ViewModelBuilder struct {
	gatewayURL      string
	bidHistoryLimit int
	log             *logrus.Entry
}

// NewViewModelBuilder creates a new ViewModelBuilder
func NewViewModelBuilder(gatewayURL string, bidHistoryLimit int, logger *logrus.Logger) *ViewModelBuilder {
	return &ViewModelBuilder{
		gatewayURL:      gatewayURL,
		bidHistoryLimit: bidHistoryLimit,
		log:             logger.WithField("component", "viewmodel"),
	}
}

// BuildAuction projects one auction object. The second return is false when
// the record is unusable (missing nested item), in which case the caller
// skips the entry without failing the batch.
func (b *ViewModelBuilder) BuildAuction(obj ledger.ObjectData) (models.AuctionRecord, bool) {
	nft := obj.NestedFields("nft")
	if nft == nil {
		b.log.WithField("object", obj.ObjectID).Warn("auction without nested item, skipping")
		return models.AuctionRecord{}, false
	}

	highestBid := ledger.DecodeU64(obj.Field("highest_bid"))
	reserve := ledger.DecodeU64(obj.Field("min_reserve_price"))

	record := models.AuctionRecord{
		ID:             obj.ObjectID,
		Name:           ledger.DecodeText(nft["name"]),
		Description:    ledger.DecodeText(nft["description"]),
		ImageURL:       ipfs.ResolveURL(b.gatewayURL, ledger.DecodeText(nft["url"])),
		HighestBidMist: highestBid,
		ReserveMist:    reserve,
		DisplayPrice:   displayPrice(highestBid, reserve),
		EndTimeMs:      int64(ledger.DecodeU64(obj.Field("end_time"))),
		Active:         ledger.DecodeBool(obj.Field("active")),
		Seller:         ledger.DecodeAddress(obj.Field("seller")),
		HighestBidder:  ledger.DecodeAddress(obj.Field("highest_bidder")),
		CharityID:      ledger.DecodeText(obj.Field("charity_id")),
	}
	if record.Name == "" {
		record.Name = "Charity Item"
	}
	return record, true
}

// BuildAuctions projects a batch, skipping only the unusable entries.
func (b *ViewModelBuilder) BuildAuctions(objs []ledger.ObjectData) []models.AuctionRecord {
	records := make([]models.AuctionRecord, 0, len(objs))
	for _, obj := range objs {
		if record, ok := b.BuildAuction(obj); ok {
			records = append(records, record)
		}
	}
	return records
}

// BuildCharity projects one charity object.
func (b *ViewModelBuilder) BuildCharity(obj ledger.ObjectData) models.CharityRecord {
	vault := ledger.DecodeU64(obj.Field("vault"))

	logo := obj.Field("logo")
	if len(logo) == 0 {
		logo = obj.Field("image_url")
	}
	if len(logo) == 0 {
		logo = obj.Field("url")
	}

	return models.CharityRecord{
		ID:           obj.ObjectID,
		Name:         ledger.DecodeText(obj.Field("name")),
		Description:  ledger.DecodeText(obj.Field("description")),
		Website:      ledger.DecodeText(obj.Field("website")),
		LogoURL:      ipfs.ResolveURL(b.gatewayURL, ledger.DecodeText(logo)),
		AIVerified:   ledger.DecodeBool(obj.Field("ai_verified")),
		IsVerified:   ledger.DecodeBool(obj.Field("is_verified")),
		VaultMist:    vault,
		VaultDisplay: ledger.FormatAmount(vault),
		ImpactLevel:  ledger.DecodeU64(obj.Field("impact_level")),
		Wallet:       ledger.DecodeAddress(obj.Field("wallet")),
	}
}

// BuildCharities projects a batch of charity objects.
func (b *ViewModelBuilder) BuildCharities(objs []ledger.ObjectData) []models.CharityRecord {
	records := make([]models.CharityRecord, 0, len(objs))
	for _, obj := range objs {
		records = append(records, b.BuildCharity(obj))
	}
	return records
}

// BuildProposals projects disbursement proposals, resolving each owning
// charity's display name against the charity batch fetched in the same sync
// pass. A proposal whose charity is missing from the batch still produces a
// record with the fallback name.
func (b *ViewModelBuilder) BuildProposals(objs []ledger.ObjectData, charities []models.CharityRecord) []models.DisbursementProposal {
	names := make(map[string]string, len(charities))
	for _, c := range charities {
		names[c.ID] = c.Name
	}

	records := make([]models.DisbursementProposal, 0, len(objs))
	for _, obj := range objs {
		charityID := ledger.DecodeText(obj.Field("charity_id"))
		name, ok := names[charityID]
		if !ok || name == "" {
			name = models.FallbackCharityName
		}

		amount := ledger.DecodeU64(obj.Field("amount"))
		status := int(ledger.DecodeU64(obj.Field("status")))

		records = append(records, models.DisbursementProposal{
			ID:            obj.ObjectID,
			CharityID:     charityID,
			CharityName:   name,
			AmountMist:    amount,
			AmountDisplay: ledger.FormatAmount(amount),
			Justification: ledger.DecodeText(obj.Field("description")),
			Status:        status,
			StatusLabel:   models.StatusLabelFor(status),
			AdminFeedback: ledger.DecodeText(obj.Field("admin_feedback")),
		})
	}
	return records
}

// PendingProposals filters a proposal batch down to the admin queue.
func PendingProposals(proposals []models.DisbursementProposal) []models.DisbursementProposal {
	pending := make([]models.DisbursementProposal, 0, len(proposals))
	for _, p := range proposals {
		if p.Status == models.ProposalStatusPending {
			pending = append(pending, p)
		}
	}
	return pending
}

// BuildBidHistory filters the full bid event log down to one auction,
// preserving the reader's descending-time order and capping to the most
// recent entries to bound memory.
func (b *ViewModelBuilder) BuildBidHistory(events []ledger.EventRecord, auctionID string) []models.BidHistoryEntry {
	history := make([]models.BidHistoryEntry, 0, b.bidHistoryLimit)
	for _, ev := range events {
		if ledger.DecodeText(ev.EventField("auction_id")) != auctionID {
			continue
		}
		amount := ledger.DecodeU64(ev.EventField("amount"))
		history = append(history, models.BidHistoryEntry{
			Bidder:        ledger.DecodeAddress(ev.EventField("bidder")),
			AmountMist:    amount,
			AmountDisplay: ledger.FormatAmount(amount),
			TimestampMs:   ev.TimestampMs,
		})
		if len(history) >= b.bidHistoryLimit {
			break
		}
	}
	return history
}

// BuildOwnedNFT projects one wallet-held collectible.
func (b *ViewModelBuilder) BuildOwnedNFT(obj ledger.ObjectData) models.OwnedNFT {
	name := ledger.DecodeText(obj.Field("name"))
	if name == "" {
		name = "Charity NFT"
	}
	return models.OwnedNFT{
		ID:       obj.ObjectID,
		Name:     name,
		ImageURL: ipfs.ResolveURL(b.gatewayURL, ledger.DecodeText(obj.Field("url"))),
	}
}

// ClassifyAuctions splits a batch into the auctions the address created and
// the live auctions it currently leads. Identifier comparison is
// case-insensitive because the ledger does not guarantee consistent casing.
func ClassifyAuctions(auctions []models.AuctionRecord, address string) (created, leading []models.AuctionRecord) {
	for _, a := range auctions {
		if ledger.SameAddress(a.Seller, address) {
			created = append(created, a)
		}
		if a.Active && ledger.SameAddress(a.HighestBidder, address) {
			leading = append(leading, a)
		}
	}
	return created, leading
}

// EventObjectIDs extracts and dedupes the embedded object ids from an event
// batch, preserving first-seen order.
func EventObjectIDs(events []ledger.EventRecord, field string) []string {
	seen := make(map[string]struct{}, len(events))
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		id := ledger.DecodeText(ev.EventField(field))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func displayPrice(highestBid, reserve uint64) string {
	if highestBid == 0 {
		return ledger.FormatAmount(reserve)
	}
	return ledger.FormatAmount(highestBid)
}
