package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"charity-auction/internal/config"
	"charity-auction/internal/ledger"
	"charity-auction/internal/models"
)

// Resource names one independently synced view-model cache. There is no
// cross-resource consistency guarantee; each is eventually consistent on its
// own.
type Resource string

const (
	ResourceAuctions  Resource = "auctions"
	ResourceCharities Resource = "charities"
	ResourceProposals Resource = "proposals"
)

// eventQueryLimit bounds how far back a single sync pass reads the event log.
const eventQueryLimit = 100

// confirmTimeout bounds the post-transaction wait before the authoritative
// re-read.
const confirmTimeout = 30 * time.Second

// SyncService reconciles external ledger state into local view models. It
// owns one shared poller per resource type; screens subscribe instead of
// running their own timers.
type SyncService struct {
	reader  ledger.Reader
	builder *ViewModelBuilder
	ledger  config.LedgerConfig
	log     *logrus.Entry

	Auctions  *Poller[[]models.AuctionRecord]
	Charities *Poller[[]models.CharityRecord]
	Proposals *Poller[[]models.DisbursementProposal]
}

// NewSyncService creates a new SyncService
func NewSyncService(reader ledger.Reader, builder *ViewModelBuilder, cfg *config.Config, logger *logrus.Logger) *SyncService {
	s := &SyncService{
		reader:  reader,
		builder: builder,
		ledger:  cfg.Ledger,
		log:     logger.WithField("component", "sync"),
	}
	s.Auctions = NewPoller("auctions", cfg.Sync.AuctionInterval, s.fetchAuctions, logger)
	s.Charities = NewPoller("charities", cfg.Sync.CharityInterval, s.fetchCharities, logger)
	s.Proposals = NewPoller("proposals", cfg.Sync.ProposalInterval, s.fetchProposals, logger)
	return s
}

// fetchAuctions rebuilds the auction listing wholesale from creation events
// plus a fresh object batch.
func (s *SyncService) fetchAuctions(ctx context.Context) ([]models.AuctionRecord, error) {
	events, err := s.reader.QueryEvents(ctx, s.ledger.EventType("AuctionCreated"), eventQueryLimit)
	if err != nil {
		return nil, fmt.Errorf("query auction events: %w", err)
	}
	ids := EventObjectIDs(events, "auction_id")
	objects, err := s.reader.MultiGetObjects(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch auction objects: %w", err)
	}
	return s.builder.BuildAuctions(objects), nil
}

// fetchCharities rebuilds the charity listing wholesale.
func (s *SyncService) fetchCharities(ctx context.Context) ([]models.CharityRecord, error) {
	events, err := s.reader.QueryEvents(ctx, s.ledger.EventType("CharityRegistered"), eventQueryLimit)
	if err != nil {
		return nil, fmt.Errorf("query charity events: %w", err)
	}
	ids := EventObjectIDs(events, "charity_id")
	objects, err := s.reader.MultiGetObjects(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch charity objects: %w", err)
	}
	return s.builder.BuildCharities(objects), nil
}

// fetchProposals rebuilds the disbursement queue. The charity batch used to
// resolve display names is fetched in the same pass, not taken from the
// charity poller, so the correlation never mixes two sync generations.
func (s *SyncService) fetchProposals(ctx context.Context) ([]models.DisbursementProposal, error) {
	charities, err := s.fetchCharities(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.reader.QueryEvents(ctx, s.ledger.EventType("DisbursementRequestCreated"), eventQueryLimit)
	if err != nil {
		return nil, fmt.Errorf("query proposal events: %w", err)
	}
	ids := EventObjectIDs(events, "proposal_id")
	objects, err := s.reader.MultiGetObjects(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch proposal objects: %w", err)
	}
	return s.builder.BuildProposals(objects, charities), nil
}

// AuctionDetail fetches one auction and its recent bid history on demand.
func (s *SyncService) AuctionDetail(ctx context.Context, id string) (models.AuctionRecord, []models.BidHistoryEntry, error) {
	obj, err := s.reader.GetObject(ctx, id)
	if err != nil {
		return models.AuctionRecord{}, nil, fmt.Errorf("fetch auction %s: %w", id, err)
	}
	record, ok := s.builder.BuildAuction(*obj)
	if !ok {
		return models.AuctionRecord{}, nil, fmt.Errorf("auction %s has no item attached", id)
	}

	events, err := s.reader.QueryEvents(ctx, s.ledger.EventType("BidPlaced"), s.builder.bidHistoryLimit)
	if err != nil {
		return models.AuctionRecord{}, nil, fmt.Errorf("query bid events: %w", err)
	}
	return record, s.builder.BuildBidHistory(events, id), nil
}

// Profile assembles the profile view for one address: balance, created
// auctions, live auctions the address is leading, and owned collectibles.
func (s *SyncService) Profile(ctx context.Context, address string) (*models.ProfileView, error) {
	balance, err := s.reader.GetBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}

	auctions, err := s.Auctions.SnapshotOrFetch(ctx)
	if err != nil {
		return nil, err
	}
	created, leading := ClassifyAuctions(auctions, address)

	owned, err := s.reader.GetOwnedObjects(ctx, address, s.ledger.StructType("CharityNFT"))
	if err != nil {
		return nil, fmt.Errorf("fetch owned collectibles: %w", err)
	}
	nfts := make([]models.OwnedNFT, 0, len(owned))
	for _, obj := range owned {
		nfts = append(nfts, s.builder.BuildOwnedNFT(obj))
	}

	return &models.ProfileView{
		Address:         address,
		BalanceMist:     balance,
		BalanceDisplay:  ledger.FormatAmount(balance),
		CreatedAuctions: created,
		LeadingBids:     leading,
		OwnedNFTs:       nfts,
	}, nil
}

// Balance returns the address's native-coin balance.
func (s *SyncService) Balance(ctx context.Context, address string) (uint64, error) {
	return s.reader.GetBalance(ctx, address)
}

// RefreshAfter waits for one transaction digest to confirm, then issues one
// authoritative re-read of every affected resource. This is the composed
// wait-then-read operation: reads issued through it cannot race the write.
func (s *SyncService) RefreshAfter(ctx context.Context, digest string, scopes ...Resource) error {
	waitCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	if err := s.reader.WaitForTransaction(waitCtx, digest); err != nil {
		return fmt.Errorf("confirm transaction %s: %w", digest, err)
	}

	for _, scope := range scopes {
		var err error
		switch scope {
		case ResourceAuctions:
			err = s.Auctions.Refresh(ctx)
		case ResourceCharities:
			err = s.Charities.Refresh(ctx)
		case ResourceProposals:
			err = s.Proposals.Refresh(ctx)
		}
		if err != nil {
			s.log.WithError(err).WithField("resource", scope).Warn("post-transaction refresh failed")
		}
	}
	return nil
}

// WarmUp subscribes the list pollers so first page loads are served from a
// warm snapshot. The returned release stops all of them.
func (s *SyncService) WarmUp() (release func()) {
	releases := []func(){
		s.Auctions.Subscribe(),
		s.Charities.Subscribe(),
		s.Proposals.Subscribe(),
	}
	return func() {
		for _, r := range releases {
			r()
		}
	}
}
