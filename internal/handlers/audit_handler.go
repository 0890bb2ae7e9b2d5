package handlers

import (
	"errors"
	"net/http"

	"charity-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuditHandler struct {
	audit *services.AuditService
	log   *logrus.Entry
}

func NewAuditHandler(audit *services.AuditService, logger *logrus.Logger) *AuditHandler {
	return &AuditHandler{
		audit: audit,
		log:   logger.WithField("component", "audit_handler"),
	}
}

// VerifyCharity runs the AI document audit for one registration dossier
func (h *AuditHandler) VerifyCharity(c *gin.Context) {
	var req struct {
		IPFSHash    string `json:"ipfsHash"`
		CharityName string `json:"charityName"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.IPFSHash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ipfsHash is required"})
		return
	}

	verdict, err := h.audit.VerifyCharity(c.Request.Context(), req.IPFSHash, req.CharityName)
	if err != nil {
		var auditErr *services.AuditError
		if errors.As(err, &auditErr) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   auditErr.Error(),
				"score":   0,
				"summary": auditErr.Summary,
			})
			return
		}
		h.log.WithError(err).Error("audit failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "audit failed"})
		return
	}

	c.JSON(http.StatusOK, verdict)
}
