package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charity-auction/internal/groq"
	"charity-auction/internal/services"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeFetcher) FetchDocument(ctx context.Context, cid string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

type fakeAssistant struct {
	reply string
	err   error
	calls int
}

func (f *fakeAssistant) Complete(ctx context.Context, req groq.CompletionRequest) (string, error) {
	f.calls++
	return f.reply, f.err
}

func auditRouter(fetcher *fakeFetcher, assistant *fakeAssistant) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := testLogger()
	audit := services.NewAuditService(fetcher, assistant, logger)
	handler := NewAuditHandler(audit, logger)

	router := gin.New()
	router.POST("/api/verify-charity", handler.VerifyCharity)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestVerifyCharityMissingHash(t *testing.T) {
	fetcher := &fakeFetcher{}
	assistant := &fakeAssistant{}
	router := auditRouter(fetcher, assistant)

	w := postJSON(router, "/api/verify-charity", `{"charityName": "Quy Tre Em"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])

	// Request is rejected before any upstream call.
	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, 0, assistant.calls)
}

func TestVerifyCharityFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("gateway timeout")}
	assistant := &fakeAssistant{}
	router := auditRouter(fetcher, assistant)

	w := postJSON(router, "/api/verify-charity", `{"ipfsHash": "QmHash", "charityName": "Quy"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Error   string  `json:"error"`
		Score   float64 `json:"score"`
		Summary string  `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.Score)
	assert.NotEmpty(t, body.Summary)
	assert.Equal(t, 0, assistant.calls)
}

func TestVerifyCharityVerdictPassthrough(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte("%PDF-unused")}
	assistant := &fakeAssistant{reply: `{"is_valid": true, "score": 88, "summary": "Ho so day du", "reason": "Khop ten"}`}

	gin.SetMode(gin.TestMode)
	logger := testLogger()
	audit := services.NewAuditService(fetcher, assistant, logger)
	audit.SetExtractor(func(data []byte) (string, error) {
		return "Giay phep Quy", nil
	})
	handler := NewAuditHandler(audit, logger)
	router := gin.New()
	router.POST("/api/verify-charity", handler.VerifyCharity)

	w := postJSON(router, "/api/verify-charity", `{"ipfsHash": "QmHash", "charityName": "Quy"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var verdict services.Verdict
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verdict))
	assert.True(t, verdict.IsValid)
	assert.Equal(t, float64(88), verdict.Score)
	assert.Equal(t, "Ho so day du", verdict.Summary)
}
