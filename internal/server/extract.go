package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// extractHandler runs the extraction engine over raw text. The response body
// mirrors the engine's wire contract: a single transaction object when one
// was found, an array when several were.
func (s *Server) extractHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req struct {
		Text string `json:"text"`
		Save bool   `json:"save"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result := s.engine.Extract(c.Request.Context(), req.Text)

	if req.Save {
		saved, duplicates := 0, 0
		for _, tx := range result.Transactions {
			if tx.Amount == 0 {
				continue
			}
			_, dup, err := s.payments.Record(c.Request.Context(), userID, tx, "extract api")
			if err != nil {
				s.log.Error().Err(err).Msg("Failed to record payment")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save payments"})
				return
			}
			if dup {
				duplicates++
			} else {
				saved++
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"transactions": result.Transactions,
			"saved":        saved,
			"duplicates":   duplicates,
		})
		return
	}

	if result.Multiple {
		c.JSON(http.StatusOK, result.Transactions)
		return
	}
	c.JSON(http.StatusOK, result.Transactions[0])
}
