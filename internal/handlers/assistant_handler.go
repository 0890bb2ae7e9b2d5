package handlers

import (
	"net/http"

	"charity-auction/internal/groq"
	"charity-auction/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AssistantHandler struct {
	assistant *services.AssistantService
	log       *logrus.Entry
}

func NewAssistantHandler(assistant *services.AssistantService, logger *logrus.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistant,
		log:       logger.WithField("component", "assistant_handler"),
	}
}

// Chat forwards one user message plus prior turns to the assistant
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req struct {
		Message string         `json:"message" binding:"required"`
		History []groq.Message `json:"history"`
		Type    string         `json:"type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := h.assistant.Chat(c.Request.Context(), req.Message, req.History, req.Type)
	if err != nil {
		h.log.WithError(err).Error("chat request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi kết nối đến trợ lý AI."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// GenerateDescription writes an auction listing description for an item
func (h *AssistantHandler) GenerateDescription(c *gin.Context) {
	var req struct {
		ItemName  string `json:"itemName"`
		Story     string `json:"story"`
		Cause     string `json:"cause"`
		DonorName string `json:"donorName"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	description, err := h.assistant.GenerateDescription(c.Request.Context(), req.ItemName, req.Story, req.Cause, req.DonorName)
	if err != nil {
		h.log.WithError(err).Error("description request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi kết nối đến trợ lý AI."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"description": description})
}
