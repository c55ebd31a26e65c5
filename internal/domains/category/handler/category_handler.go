package handler

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/category/model"
	"library-backend/internal/domains/category/service"
	"library-backend/internal/shared/response"
)

type CategoryHandler struct {
	service service.Service
}

func NewCategoryHandler(service service.Service) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List - GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Categories retrieved successfully", categories)
}

// Create - POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	category, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, "Category created successfully", category)
}

// Rename - PUT /categories/:id
func (h *CategoryHandler) Rename(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	category, err := h.service.Rename(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Category updated successfully", category)
}

// Delete - DELETE /categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Category deleted successfully", nil)
}
