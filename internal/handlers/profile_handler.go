package handlers

import (
	"net/http"

	"charity-auction/internal/ledger"
	"charity-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProfileHandler struct {
	sync *services.SyncService
	log  *logrus.Entry
}

func NewProfileHandler(sync *services.SyncService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{
		sync: sync,
		log:  logger.WithField("component", "profile_handler"),
	}
}

// GetProfile assembles the profile view for one wallet address
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	profile, err := h.sync.Profile(c.Request.Context(), address)
	if err != nil {
		h.log.WithError(err).WithField("address", address).Error("failed to build profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": profile})
}

// GetBalance returns the native-coin balance of one wallet address
func (h *ProfileHandler) GetBalance(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	balance, err := h.sync.Balance(c.Request.Context(), address)
	if err != nil {
		h.log.WithError(err).WithField("address", address).Error("failed to fetch balance")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"balance_mist":    balance,
		"balance_display": ledger.FormatAmount(balance),
	})
}
