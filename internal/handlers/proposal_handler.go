package handlers

import (
	"net/http"

	"charity-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProposalHandler struct {
	sync *services.SyncService
	log  *logrus.Entry
}

func NewProposalHandler(sync *services.SyncService, logger *logrus.Logger) *ProposalHandler {
	return &ProposalHandler{
		sync: sync,
		log:  logger.WithField("component", "proposal_handler"),
	}
}

// GetPendingProposals returns disbursement proposals awaiting an admin
// decision
func (h *ProposalHandler) GetPendingProposals(c *gin.Context) {
	proposals, err := h.sync.Proposals.SnapshotOrFetch(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to fetch proposals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch proposals"})
		return
	}

	pending := services.PendingProposals(proposals)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    pending,
		"count":   len(pending),
	})
}
