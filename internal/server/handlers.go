package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/receiptsplit/receiptsplit/internal/models"
	"github.com/receiptsplit/receiptsplit/internal/money"
	"github.com/receiptsplit/receiptsplit/internal/storage"
)

// splitRequest is the write-side shape of a split. Money fields arrive
// as JSON numbers and pass through the safe-numeric coercion, so a
// client sending garbage gets zeros rather than errors; quantities and
// shares get the same treatment.
type splitRequest struct {
	Name         string               `json:"name"`
	Items        []itemRequest        `json:"items"`
	Participants []models.Participant `json:"participants"`
	TaxInCents   float64              `json:"taxInCents"`
	TipInCents   float64              `json:"tipInCents"`
	Category     models.Category      `json:"category"`
	ExcludeMe    bool                 `json:"excludeMe"`
}

type itemRequest struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	PriceInCents float64                 `json:"priceInCents"`
	Quantity     float64                 `json:"quantity"`
	Assignments  []models.ItemAssignment `json:"assignments"`
}

func (r *splitRequest) toModel() *models.Split {
	items := make([]models.Item, len(r.Items))
	for i, item := range r.Items {
		items[i] = models.Item{
			ID:           item.ID,
			Name:         item.Name,
			PriceInCents: money.ToCents(item.PriceInCents),
			Quantity:     money.ToCents(item.Quantity),
			Assignments:  item.Assignments,
		}
	}
	return &models.Split{
		Name:         r.Name,
		Items:        items,
		Participants: r.Participants,
		TaxInCents:   money.ToCents(r.TaxInCents),
		TipInCents:   money.ToCents(r.TipInCents),
		Category:     r.Category,
		ExcludeMe:    r.ExcludeMe,
	}
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "split not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) listSplits(c *gin.Context) {
	splits, err := s.svc.ListSplits(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"splits": splits})
}

func (s *Server) createSplit(c *gin.Context) {
	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	split, err := s.svc.CreateSplit(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, split)
}

func (s *Server) getSplit(c *gin.Context) {
	split, err := s.svc.GetSplit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, split)
}

func (s *Server) updateSplit(c *gin.Context) {
	var req splitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	split := req.toModel()
	split.ID = c.Param("id")

	updated, err := s.svc.UpdateSplit(c.Request.Context(), split)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteSplit(c *gin.Context) {
	if err := s.svc.DeleteSplit(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getBreakdown(c *gin.Context) {
	result, err := s.svc.Breakdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getShareableText(c *gin.Context) {
	text, err := s.svc.ShareableText(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

func (s *Server) getSpending(c *gin.Context) {
	summary, err := s.svc.Spending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) getRecentPeople(c *gin.Context) {
	people, err := s.svc.RecentPeople(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": people})
}

// validateMoneyInput lets clients gate keystroke-level money entry
// server-side: returns whether the value is a legal in-progress entry,
// its cent value, and the canonical display string.
func (s *Server) validateMoneyInput(c *gin.Context) {
	value := c.Query("value")
	cents := money.MoneyStringToCents(value)
	c.JSON(http.StatusOK, gin.H{
		"valid":   money.IsValidMoneyInput(value),
		"cents":   cents,
		"display": money.CentsToMoneyString(cents),
	})
}
