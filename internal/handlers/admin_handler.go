package handlers

import (
	"net/http"

	"charity-auction/internal/auth"
	"charity-auction/internal/ledger"
	"charity-auction/internal/models"
	"charity-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	sync         *services.SyncService
	adminAddress string
	log          *logrus.Entry
}

func NewAdminHandler(sync *services.SyncService, adminAddress string, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		sync:         sync,
		adminAddress: adminAddress,
		log:          logger.WithField("component", "admin_handler"),
	}
}

// Login issues an admin session token when the wallet address matches the
// configured admin wallet
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet_address is required"})
		return
	}

	if h.adminAddress == "" || !ledger.SameAddress(req.WalletAddress, h.adminAddress) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not an admin wallet"})
		return
	}

	token, err := auth.GenerateToken(req.WalletAddress)
	if err != nil {
		h.log.WithError(err).Error("failed to issue admin token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// GetCharityQueues splits the charity list into the admin review queues: AI
// audit done but awaiting final approval, fully verified, and everything
// still unreviewed.
func (h *AdminHandler) GetCharityQueues(c *gin.Context) {
	charities, err := h.sync.Charities.SnapshotOrFetch(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to fetch charities")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch charities"})
		return
	}

	var awaitingApproval, verified, unreviewed []models.CharityRecord
	for _, charity := range charities {
		switch {
		case charity.IsVerified:
			verified = append(verified, charity)
		case charity.AIVerified:
			awaitingApproval = append(awaitingApproval, charity)
		default:
			unreviewed = append(unreviewed, charity)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"awaiting_approval": awaitingApproval,
		"verified":          verified,
		"unreviewed":        unreviewed,
	})
}

// GetProposals returns every disbursement proposal with its status label
func (h *AdminHandler) GetProposals(c *gin.Context) {
	proposals, err := h.sync.Proposals.SnapshotOrFetch(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to fetch proposals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proposals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    proposals,
		"count":   len(proposals),
	})
}
