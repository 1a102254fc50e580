package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"upitrack/internal/extraction"
)

func (s *Server) listPaymentsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	payments, err := s.payments.List(c.Request.Context(), userID, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list payments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, payments)
}

// createPaymentHandler stores a manually entered payment. It goes through the
// same duplicate guard as extracted ones.
func (s *Server) createPaymentHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req struct {
		Type         string  `json:"type" binding:"required"`
		Amount       float64 `json:"amount" binding:"required"`
		Counterparty string  `json:"from"`
		VPA          string  `json:"upi_id"`
		ReferenceNo  string  `json:"ref_no"`
		Source       string  `json:"source"`
		Timestamp    string  `json:"timestamp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txType := extraction.TransactionType(req.Type)
	if !txType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown transaction type"})
		return
	}
	if req.Amount < extraction.MinAmount || req.Amount > extraction.MaxAmount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount out of range"})
		return
	}
	occurredAt := time.Now()
	if req.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timestamp"})
			return
		}
		occurredAt = t
	}

	tx := extraction.Transaction{
		Type:         txType,
		Amount:       req.Amount,
		Counterparty: req.Counterparty,
		VPA:          req.VPA,
		ReferenceNo:  req.ReferenceNo,
		Source:       req.Source,
		Timestamp:    occurredAt,
	}
	id, dup, err := s.payments.Record(c.Request.Context(), userID, tx, "manual entry")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to record payment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment"})
		return
	}
	if dup {
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate payment", "id": id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) deletePaymentHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := s.payments.Delete(c.Request.Context(), userID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		s.log.Error().Err(err).Msg("Failed to delete payment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete payment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (s *Server) summaryHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	since := time.Now().AddDate(-1, 0, 0)
	if v := c.Query("since"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since date"})
			return
		}
		since = t
	}

	summary, err := s.payments.MonthlySummary(c.Request.Context(), userID, since)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to build summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
