package handlers

import (
	"net/http"

	"charity-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TransactionHandler struct {
	tx  *services.TxService
	log *logrus.Entry
}

func NewTransactionHandler(tx *services.TxService, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{
		tx:  tx,
		log: logger.WithField("component", "transaction_handler"),
	}
}

// Build turns a typed intent into an unsigned move-call payload for the
// wallet to sign
func (h *TransactionHandler) Build(c *gin.Context) {
	var req services.BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	call, err := h.tx.Build(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": call})
}

// Submit forwards pre-signed transaction bytes to the ledger. The ledger's
// failure message is returned verbatim so the wallet UI can show it.
func (h *TransactionHandler) Submit(c *gin.Context) {
	var req struct {
		Type       string   `json:"type"`
		TxBytes    string   `json:"tx_bytes" binding:"required"`
		Signatures []string `json:"signatures" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tx_bytes and signatures are required"})
		return
	}

	digest, err := h.tx.Submit(c.Request.Context(), req.Type, req.TxBytes, req.Signatures)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "digest": digest})
}

// Confirm waits for a wallet-executed transaction and refreshes the view
// models it affects
func (h *TransactionHandler) Confirm(c *gin.Context) {
	digest := c.Param("digest")

	var req struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type is required"})
		return
	}

	scopes := services.ScopesFor(req.Type)
	if len(scopes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown transaction type"})
		return
	}

	h.tx.Confirm(digest, scopes...)
	c.JSON(http.StatusAccepted, gin.H{"success": true, "digest": digest})
}
