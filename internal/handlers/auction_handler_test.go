package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charity-auction/internal/config"
	"charity-auction/internal/ledger"
	"charity-auction/internal/services"
)

// fakeLedger serves canned objects and events and records submissions.
type fakeLedger struct {
	objects   map[string]ledger.ObjectData
	events    map[string][]ledger.EventRecord
	digest    string
	submitErr error
}

func (f *fakeLedger) GetObject(ctx context.Context, id string) (*ledger.ObjectData, error) {
	obj, ok := f.objects[id]
	if !ok {
		return nil, fmt.Errorf("object %s not found", id)
	}
	return &obj, nil
}

func (f *fakeLedger) MultiGetObjects(ctx context.Context, ids []string) ([]ledger.ObjectData, error) {
	out := make([]ledger.ObjectData, 0, len(ids))
	for _, id := range ids {
		if obj, ok := f.objects[id]; ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (f *fakeLedger) QueryEvents(ctx context.Context, eventType string, limit int) ([]ledger.EventRecord, error) {
	return f.events[eventType], nil
}

func (f *fakeLedger) GetBalance(ctx context.Context, owner string) (uint64, error) {
	return 0, nil
}

func (f *fakeLedger) GetOwnedObjects(ctx context.Context, owner, structType string) ([]ledger.ObjectData, error) {
	return nil, nil
}

func (f *fakeLedger) WaitForTransaction(ctx context.Context, digest string) error {
	return nil
}

func (f *fakeLedger) ExecuteTransaction(ctx context.Context, txBytes string, signatures []string) (string, error) {
	return f.digest, f.submitErr
}

func handlerTestConfig() *config.Config {
	return &config.Config{
		Ledger: config.LedgerConfig{
			PackageID:      "0xpkg",
			ModuleName:     "charity_impact_protocol",
			GlobalConfigID: "0xglobal",
			AdminCapID:     "0xadmincap",
			ClockID:        "0x6",
		},
		Sync: config.SyncConfig{BidHistoryLimit: 20},
	}
}

func newTestSync(fake *fakeLedger) *services.SyncService {
	logger := testLogger()
	builder := services.NewViewModelBuilder("https://gateway.test/ipfs/", 20, logger)
	return services.NewSyncService(fake, builder, handlerTestConfig(), logger)
}

func raw(v interface{}) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func auctionObject(id string, highestBid, reserve uint64) ledger.ObjectData {
	return ledger.ObjectData{
		ObjectID: id,
		Fields: map[string]json.RawMessage{
			"nft": raw(map[string]interface{}{
				"fields": map[string]interface{}{"name": "Item " + id},
			}),
			"highest_bid":       raw(fmt.Sprintf("%d", highestBid)),
			"min_reserve_price": raw(fmt.Sprintf("%d", reserve)),
			"active":            raw(true),
		},
	}
}

func getJSON(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetAuctionsDisplayPrices(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fake := &fakeLedger{
		objects: map[string]ledger.ObjectData{
			"0xa1": auctionObject("0xa1", 0, 5_000_000_000),
			"0xa2": auctionObject("0xa2", 12_340_000_000, 5_000_000_000),
		},
		events: map[string][]ledger.EventRecord{
			"0xpkg::charity_impact_protocol::AuctionCreated": {
				{ParsedJSON: map[string]json.RawMessage{"auction_id": raw("0xa1")}},
				{ParsedJSON: map[string]json.RawMessage{"auction_id": raw("0xa2")}},
			},
		},
	}

	handler := NewAuctionHandler(newTestSync(fake), testLogger())
	router := gin.New()
	router.GET("/api/auctions", handler.GetAuctions)

	w := getJSON(router, "/api/auctions")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
		Data    []struct {
			ID           string `json:"id"`
			DisplayPrice string `json:"display_price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	require.Equal(t, 2, body.Count)
	// No bids yet: reserve price shown. With bids: highest bid shown.
	assert.Equal(t, "5.00", body.Data[0].DisplayPrice)
	assert.Equal(t, "12.34", body.Data[1].DisplayPrice)
}

func TestGetAuctionByIDNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fake := &fakeLedger{objects: map[string]ledger.ObjectData{}}
	handler := NewAuctionHandler(newTestSync(fake), testLogger())
	router := gin.New()
	router.GET("/api/auctions/:id", handler.GetAuctionByID)

	w := getJSON(router, "/api/auctions/0xmissing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
