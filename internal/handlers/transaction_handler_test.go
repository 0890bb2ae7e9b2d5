package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charity-auction/internal/services"
)

func transactionRouter(fake *fakeLedger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := testLogger()
	tx := services.NewTxService(fake, newTestSync(fake), handlerTestConfig(), logger)
	handler := NewTransactionHandler(tx, logger)

	router := gin.New()
	router.POST("/api/transactions/build", handler.Build)
	router.POST("/api/transactions/submit", handler.Submit)
	router.POST("/api/transactions/:digest/confirm", handler.Confirm)
	return router
}

func TestBuildTransaction(t *testing.T) {
	router := transactionRouter(&fakeLedger{})

	w := postJSON(router, "/api/transactions/build", `{"type": "place_bid", "auction_id": "0xa1", "amount": "2.50"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Target    string `json:"target"`
			Arguments []struct {
				Kind  string      `json:"kind"`
				Value interface{} `json:"value"`
			} `json:"arguments"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "0xpkg::charity_impact_protocol::place_bid", body.Data.Target)
	require.Len(t, body.Data.Arguments, 4)
	assert.Equal(t, "gas_coin", body.Data.Arguments[2].Kind)
	assert.Equal(t, "2500000000", body.Data.Arguments[2].Value)
}

func TestBuildTransactionRejectsUnknownType(t *testing.T) {
	router := transactionRouter(&fakeLedger{})

	w := postJSON(router, "/api/transactions/build", `{"type": "mint_tokens"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitTransactionFailureVerbatim(t *testing.T) {
	router := transactionRouter(&fakeLedger{submitErr: errors.New("MoveAbort(3) bid below reserve")})

	w := postJSON(router, "/api/transactions/submit", `{"type": "place_bid", "tx_bytes": "dGVzdA==", "signatures": ["sig"]}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "MoveAbort(3) bid below reserve", body["error"])
}

func TestSubmitTransactionSuccess(t *testing.T) {
	router := transactionRouter(&fakeLedger{digest: "0xdigest"})

	w := postJSON(router, "/api/transactions/submit", `{"type": "place_bid", "tx_bytes": "dGVzdA==", "signatures": ["sig"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Digest  string `json:"digest"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "0xdigest", body.Digest)
}

func TestConfirmTransactionUnknownType(t *testing.T) {
	router := transactionRouter(&fakeLedger{})

	w := postJSON(router, "/api/transactions/0xdigest/confirm", `{"type": "mint_tokens"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmTransactionAccepted(t *testing.T) {
	router := transactionRouter(&fakeLedger{})

	w := postJSON(router, "/api/transactions/0xdigest/confirm", `{"type": "place_bid"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
}
