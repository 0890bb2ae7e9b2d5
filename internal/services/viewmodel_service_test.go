package services

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charity-auction/internal/ledger"
	"charity-auction/internal/models"
)

const testGateway = "https://gateway.pinata.cloud/ipfs/"

func testBuilder(t *testing.T) *ViewModelBuilder {
	t.Helper()
	return NewViewModelBuilder(testGateway, 20, testLogger())
}

func raw(v interface{}) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func auctionObject(id string, highestBid, reserve uint64, seller, bidder string, active bool) ledger.ObjectData {
	return ledger.ObjectData{
		ObjectID: id,
		Fields: map[string]json.RawMessage{
			"nft": raw(map[string]interface{}{
				"fields": map[string]interface{}{
					"name":        "Painted Vase",
					"description": "Hand painted",
					"url":         "QmYwAPJzv5CZsnAzt8auVZRn2E6JN8oWrTmPCar6DRhKCa",
				},
			}),
			"highest_bid":       raw(fmt.Sprintf("%d", highestBid)),
			"min_reserve_price": raw(fmt.Sprintf("%d", reserve)),
			"end_time":          raw("1700000000000"),
			"active":            raw(active),
			"seller":            raw(seller),
			"highest_bidder":    raw(bidder),
			"charity_id":        raw("0xcharity"),
		},
	}
}

func TestBuildAuction(t *testing.T) {
	b := testBuilder(t)

	record, ok := b.BuildAuction(auctionObject("0xa1", 12_340_000_000, 5_000_000_000, "0xSeller", "0xBidder", true))
	require.True(t, ok)

	assert.Equal(t, "0xa1", record.ID)
	assert.Equal(t, "Painted Vase", record.Name)
	assert.Equal(t, testGateway+"QmYwAPJzv5CZsnAzt8auVZRn2E6JN8oWrTmPCar6DRhKCa", record.ImageURL)
	assert.Equal(t, uint64(12_340_000_000), record.HighestBidMist)
	assert.Equal(t, "12.34", record.DisplayPrice)
	assert.Equal(t, int64(1_700_000_000_000), record.EndTimeMs)
	assert.True(t, record.Active)
}

func TestBuildAuctionReserveFallback(t *testing.T) {
	b := testBuilder(t)

	// No bids yet: the reserve price is the display price.
	record, ok := b.BuildAuction(auctionObject("0xa1", 0, 5_000_000_000, "0xSeller", "", true))
	require.True(t, ok)
	assert.Equal(t, "5.00", record.DisplayPrice)
}

func TestBuildAuctionsSkipsMissingItem(t *testing.T) {
	b := testBuilder(t)

	broken := ledger.ObjectData{
		ObjectID: "0xbroken",
		Fields: map[string]json.RawMessage{
			"highest_bid": raw("100"),
		},
	}
	records := b.BuildAuctions([]ledger.ObjectData{
		auctionObject("0xa1", 0, 1_000_000_000, "0xs", "", true),
		broken,
		auctionObject("0xa2", 0, 2_000_000_000, "0xs", "", true),
	})

	require.Len(t, records, 2)
	assert.Equal(t, "0xa1", records[0].ID)
	assert.Equal(t, "0xa2", records[1].ID)
}

func TestBuildAuctionDefaultName(t *testing.T) {
	b := testBuilder(t)

	obj := auctionObject("0xa1", 0, 0, "0xs", "", false)
	obj.Fields["nft"] = raw(map[string]interface{}{
		"fields": map[string]interface{}{"name": ""},
	})

	record, ok := b.BuildAuction(obj)
	require.True(t, ok)
	assert.Equal(t, "Charity Item", record.Name)
}

func TestBuildProposalsFallbackName(t *testing.T) {
	b := testBuilder(t)

	charities := []models.CharityRecord{
		{ID: "0xknown", Name: "Tre em Vung Cao"},
	}
	objs := []ledger.ObjectData{
		{
			ObjectID: "0xp1",
			Fields: map[string]json.RawMessage{
				"charity_id":  raw("0xknown"),
				"amount":      raw("3000000000"),
				"status":      raw("0"),
				"description": raw("School supplies"),
			},
		},
		{
			ObjectID: "0xp2",
			Fields: map[string]json.RawMessage{
				"charity_id":  raw("0xunknown"),
				"amount":      raw("1000000000"),
				"status":      raw("1"),
				"description": raw("Flood relief"),
			},
		},
	}

	records := b.BuildProposals(objs, charities)
	require.Len(t, records, 2)

	assert.Equal(t, "Tre em Vung Cao", records[0].CharityName)
	assert.Equal(t, "3.00", records[0].AmountDisplay)
	assert.Equal(t, "pending", records[0].StatusLabel)

	// Unknown charity: record still emitted, with the fallback name.
	assert.Equal(t, "Anonymous Org", records[1].CharityName)
	assert.Equal(t, "approved", records[1].StatusLabel)
}

func TestPendingProposals(t *testing.T) {
	all := []models.DisbursementProposal{
		{ID: "a", Status: models.ProposalStatusPending},
		{ID: "b", Status: models.ProposalStatusApproved},
		{ID: "c", Status: models.ProposalStatusPending},
		{ID: "d", Status: models.ProposalStatusRejected},
	}

	pending := PendingProposals(all)
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].ID)
	assert.Equal(t, "c", pending[1].ID)
}

func bidEvent(auctionID, bidder string, amount uint64, ts int64) ledger.EventRecord {
	return ledger.EventRecord{
		TimestampMs: ts,
		ParsedJSON: map[string]json.RawMessage{
			"auction_id": raw(auctionID),
			"bidder":     raw(bidder),
			"amount":     raw(fmt.Sprintf("%d", amount)),
		},
	}
}

func TestBuildBidHistoryFiltersAndCaps(t *testing.T) {
	b := NewViewModelBuilder(testGateway, 3, testLogger())

	events := []ledger.EventRecord{
		bidEvent("0xa1", "0xb1", 5_000_000_000, 500),
		bidEvent("0xother", "0xb9", 9_000_000_000, 400),
		bidEvent("0xa1", "0xb2", 4_000_000_000, 300),
		bidEvent("0xa1", "0xb3", 3_000_000_000, 200),
		bidEvent("0xa1", "0xb4", 2_000_000_000, 100),
	}

	history := b.BuildBidHistory(events, "0xa1")
	require.Len(t, history, 3)

	// Reader order (newest first) preserved, foreign auction filtered out,
	// capped at the limit.
	assert.Equal(t, "0xb1", history[0].Bidder)
	assert.Equal(t, "5.00", history[0].AmountDisplay)
	assert.Equal(t, "0xb2", history[1].Bidder)
	assert.Equal(t, "0xb3", history[2].Bidder)
}

func TestClassifyAuctionsCaseInsensitive(t *testing.T) {
	auctions := []models.AuctionRecord{
		{ID: "a", Seller: "0xABCDEF", Active: true},
		{ID: "b", Seller: "0xother", HighestBidder: "0xabcdef", Active: true},
		{ID: "c", Seller: "0xother", HighestBidder: "0xabcdef", Active: false},
	}

	created, leading := ClassifyAuctions(auctions, "0xabcDEF")
	require.Len(t, created, 1)
	assert.Equal(t, "a", created[0].ID)

	// Only active auctions count as leading.
	require.Len(t, leading, 1)
	assert.Equal(t, "b", leading[0].ID)
}

func TestClassifyAuctionsEmptyAddressesNeverMatch(t *testing.T) {
	auctions := []models.AuctionRecord{
		{ID: "a", Seller: "", HighestBidder: "", Active: true},
	}

	created, leading := ClassifyAuctions(auctions, "")
	assert.Empty(t, created)
	assert.Empty(t, leading)
}

func TestEventObjectIDs(t *testing.T) {
	events := []ledger.EventRecord{
		{ParsedJSON: map[string]json.RawMessage{"auction_id": raw("0xa1")}},
		{ParsedJSON: map[string]json.RawMessage{"auction_id": raw("0xa2")}},
		{ParsedJSON: map[string]json.RawMessage{"auction_id": raw("0xa1")}},
		{ParsedJSON: map[string]json.RawMessage{"other": raw("0xa3")}},
	}

	ids := EventObjectIDs(events, "auction_id")
	assert.Equal(t, []string{"0xa1", "0xa2"}, ids)
}
