package handlers

import (
	"net/http"

	"charity-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuctionHandler struct {
	sync *services.SyncService
	log  *logrus.Entry
}

func NewAuctionHandler(sync *services.SyncService, logger *logrus.Logger) *AuctionHandler {
	return &AuctionHandler{
		sync: sync,
		log:  logger.WithField("component", "auction_handler"),
	}
}

// GetAuctions returns the synced auction list. With an address it also
// classifies the list into auctions the address created and live auctions it
// is currently leading.
func (h *AuctionHandler) GetAuctions(c *gin.Context) {
	auctions, err := h.sync.Auctions.SnapshotOrFetch(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to fetch auctions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch auctions"})
		return
	}

	address := c.Query("address")
	if address == "" {
		address = c.GetHeader("X-Wallet-Address")
	}

	_, lastSync, _ := h.sync.Auctions.Snapshot()
	resp := gin.H{
		"success":   true,
		"data":      auctions,
		"count":     len(auctions),
		"last_sync": lastSync,
	}
	if address != "" {
		created, leading := services.ClassifyAuctions(auctions, address)
		resp["created"] = created
		resp["leading"] = leading
	}

	c.JSON(http.StatusOK, resp)
}

// GetAuctionByID returns one auction with its recent bid history
func (h *AuctionHandler) GetAuctionByID(c *gin.Context) {
	auctionID := c.Param("id")

	auction, bids, err := h.sync.AuctionDetail(c.Request.Context(), auctionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Auction not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    auction,
		"bids":    bids,
	})
}

// GetAuctionBids returns the recent bid history of one auction, newest first
func (h *AuctionHandler) GetAuctionBids(c *gin.Context) {
	auctionID := c.Param("id")

	_, bids, err := h.sync.AuctionDetail(c.Request.Context(), auctionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Auction not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bids,
		"count":   len(bids),
	})
}
