package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/borrowing/model"
	"library-backend/internal/domains/borrowing/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type BorrowingHandler struct {
	service service.Service
}

func NewBorrowingHandler(service service.Service) *BorrowingHandler {
	return &BorrowingHandler{service: service}
}

func listRequest(c *gin.Context) model.ListBorrowingsRequest {
	req := model.ListBorrowingsRequest{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	req.Page, _ = strconv.Atoi(c.Query("page"))
	req.Limit, _ = strconv.Atoi(c.Query("limit"))
	return req
}

// List - GET /borrowings
func (h *BorrowingHandler) List(c *gin.Context) {
	data, err := h.service.List(c.Request.Context(), listRequest(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Borrowings retrieved successfully", data)
}

// Get - GET /borrowings/:id
func (h *BorrowingHandler) Get(c *gin.Context) {
	b, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Borrowing retrieved successfully", b)
}

// Create - POST /borrowings
func (h *BorrowingHandler) Create(c *gin.Context) {
	var req model.CreateBorrowingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, "Borrowing submitted successfully", b)
}

// UpdateStatus - PUT /borrowings/:id/status
func (h *BorrowingHandler) UpdateStatus(c *gin.Context) {
	var req model.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	b, err := h.service.Transition(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Borrowing status updated successfully", b)
}

// Delete - DELETE /borrowings/:id
func (h *BorrowingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Borrowing deleted successfully", nil)
}

// ListByMember - GET /borrowings/member/:memberId
func (h *BorrowingHandler) ListByMember(c *gin.Context) {
	caller, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "User is not authenticated")
		return
	}
	data, err := h.service.ListByMember(c.Request.Context(), caller, c.Param("memberId"), listRequest(c))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Member borrowings retrieved successfully", data)
}
