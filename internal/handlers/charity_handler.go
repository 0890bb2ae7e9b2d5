package handlers

import (
	"net/http"

	"charity-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CharityHandler struct {
	sync *services.SyncService
	log  *logrus.Entry
}

func NewCharityHandler(sync *services.SyncService, logger *logrus.Logger) *CharityHandler {
	return &CharityHandler{
		sync: sync,
		log:  logger.WithField("component", "charity_handler"),
	}
}

// GetCharities returns the synced charity list with optional verified filter
func (h *CharityHandler) GetCharities(c *gin.Context) {
	charities, err := h.sync.Charities.SnapshotOrFetch(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to fetch charities")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch charities"})
		return
	}

	if c.Query("verified") == "true" {
		filtered := charities[:0:0]
		for _, charity := range charities {
			if charity.IsVerified {
				filtered = append(filtered, charity)
			}
		}
		charities = filtered
	}

	_, lastSync, _ := h.sync.Charities.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      charities,
		"count":     len(charities),
		"last_sync": lastSync,
	})
}

// GetCharityByID returns one charity from the synced snapshot
func (h *CharityHandler) GetCharityByID(c *gin.Context) {
	charityID := c.Param("id")

	charities, err := h.sync.Charities.SnapshotOrFetch(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to fetch charities")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch charities"})
		return
	}

	for _, charity := range charities {
		if charity.ID == charityID {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": charity})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Charity not found"})
}
