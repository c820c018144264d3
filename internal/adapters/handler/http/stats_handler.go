package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
	"github.com/comitanigiacomo/ignitofy-engine/internal/core/services"
)

const (
	defaultRateDays  = 30
	defaultTrendDays = 7
)

type StatsHandler struct {
	svc    *services.StatsService
	habits services.HabitReader
}

func NewStatsHandler(svc *services.StatsService, habits services.HabitReader) *StatsHandler {
	return &StatsHandler{svc: svc, habits: habits}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/habits/:id/rate", h.GetCompletionRate)
	r.GET("/habits/:id/calendar", h.GetCalendar)

	stats := r.Group("/stats")
	{
		stats.GET("/summary", h.GetSummary)
		stats.GET("/trend", h.GetTrend)
		stats.GET("/weekdays", h.GetWeekdays)
		stats.GET("/performance", h.GetPerformance)
	}
}

func queryDays(c *gin.Context, fallback int) (int, error) {
	raw := c.Query("days")
	if raw == "" {
		return fallback, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: days=%q", domain.ErrInvalidWindow, raw)
	}
	return days, nil
}

func (h *StatsHandler) GetCompletionRate(c *gin.Context) {
	days, err := queryDays(c, defaultRateDays)
	if err != nil {
		respondError(c, err)
		return
	}

	id := c.Param("id")
	rate, err := h.svc.CompletionRate(id, days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit_id":        id,
		"days":            days,
		"rate":            rate,
		"completed_today": h.svc.IsCompletedToday(id),
	})
}

// GetCalendar renders ?month=YYYY-MM, defaulting to the current month.
func (h *StatsHandler) GetCalendar(c *gin.Context) {
	month := h.habits.Today().Time()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month format, expected YYYY-MM"})
			return
		}
		month = parsed
	}

	cal, err := h.svc.Calendar(c.Param("id"), month.Year(), month.Month())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cal)
}

func (h *StatsHandler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Aggregate())
}

func (h *StatsHandler) GetTrend(c *gin.Context) {
	days, err := queryDays(c, defaultTrendDays)
	if err != nil {
		respondError(c, err)
		return
	}

	trend, err := h.svc.Trend(days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trend)
}

func (h *StatsHandler) GetWeekdays(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Weekdays())
}

func (h *StatsHandler) GetPerformance(c *gin.Context) {
	days, err := queryDays(c, defaultRateDays)
	if err != nil {
		respondError(c, err)
		return
	}

	perf, err := h.svc.Performance(days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, perf)
}
