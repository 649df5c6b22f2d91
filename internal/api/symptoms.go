package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/mealtracker/backend/internal/service"
	"github.com/pageza/mealtracker/backend/internal/types"
)

type SymptomHandler struct {
	symptoms service.ISymptomService
}

func NewSymptomHandler(symptoms service.ISymptomService) *SymptomHandler {
	return &SymptomHandler{symptoms: symptoms}
}

func (h *SymptomHandler) RegisterRoutes(router *gin.RouterGroup) {
	symptoms := router.Group("/symptoms")
	{
		symptoms.GET("", h.ListSymptoms)
		symptoms.POST("", h.CreateSymptom)
		symptoms.GET("/:id", h.GetSymptom)
		symptoms.PUT("/:id", h.UpdateSymptom)
		symptoms.DELETE("/:id", h.DeleteSymptom)
	}
}

func (h *SymptomHandler) ListSymptoms(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	symptoms, err := h.symptoms.List(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, symptoms)
}

func (h *SymptomHandler) CreateSymptom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.SymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	symptom, err := h.symptoms.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, symptom)
}

func (h *SymptomHandler) GetSymptom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	symptom, err := h.symptoms.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, symptom)
}

func (h *SymptomHandler) UpdateSymptom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req types.SymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	symptom, err := h.symptoms.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, symptom)
}

func (h *SymptomHandler) DeleteSymptom(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.symptoms.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
