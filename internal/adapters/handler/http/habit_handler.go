package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
	"github.com/comitanigiacomo/ignitofy-engine/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type createHabitRequest struct {
	Name  string `json:"name" binding:"required"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

type updateHabitRequest struct {
	Name           *string       `json:"name"`
	Emoji          *string       `json:"emoji"`
	Color          *string       `json:"color"`
	DatesCompleted *[]domain.Day `json:"datesCompleted"`
}

type toggleRequest struct {
	Date string `json:"date"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.GET("", h.List)
		habits.POST("", h.Create)
		habits.DELETE("", h.ClearAll)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
		habits.POST("/:id/toggle", h.Toggle)
	}
}

func (h *HabitHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List())
}

func (h *HabitHandler) Get(c *gin.Context) {
	habit, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		Name:  req.Name,
		Emoji: req.Emoji,
		Color: req.Color,
	})
	if habit == nil || !softFail(c, err) {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) Update(c *gin.Context) {
	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:             c.Param("id"),
		Name:           req.Name,
		Emoji:          req.Emoji,
		Color:          req.Color,
		DatesCompleted: req.DatesCompleted,
	})
	if habit == nil || !softFail(c, err) {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Toggle flips completion for the body's date, or today when the body is
// empty or carries no date.
func (h *HabitHandler) Toggle(c *gin.Context) {
	var req toggleRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var day domain.Day
	if req.Date != "" {
		parsed, err := domain.ParseDay(req.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		day = parsed
	}

	habit, err := h.svc.ToggleCompletion(c.Request.Context(), c.Param("id"), day)
	if habit == nil || !softFail(c, err) {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); !softFail(c, err) {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HabitHandler) ClearAll(c *gin.Context) {
	if err := h.svc.ClearAll(c.Request.Context()); !softFail(c, err) {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
