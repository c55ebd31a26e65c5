package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

// Handler - HTTP handler for books
type Handler struct {
	service service.ServiceInterface
}

// NewHandler - Constructor with DI
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListBooks - GET /books
// Query params: search, author, publication_year, category, is_active, page, limit
func (h *Handler) ListBooks(c *gin.Context) {
	req := model.ListBooksRequest{
		Search:          c.Query("search"),
		Author:          c.Query("author"),
		PublicationYear: utils.ParseOptionalInt(c.Query("publication_year")),
		Category:        c.Query("category"),
		IsActive:        utils.ParseOptionalBool(c.Query("is_active")),
	}
	req.Page, _ = strconv.Atoi(c.Query("page"))
	req.Limit, _ = strconv.Atoi(c.Query("limit"))

	data, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Books retrieved successfully", data)
}

// ListPublicBooks - GET /public/books, only active books are visible
func (h *Handler) ListPublicBooks(c *gin.Context) {
	active := true
	req := model.ListBooksRequest{
		Search:          c.Query("search"),
		Author:          c.Query("author"),
		PublicationYear: utils.ParseOptionalInt(c.Query("publication_year")),
		Category:        c.Query("category"),
		IsActive:        &active,
	}
	req.Page, _ = strconv.Atoi(c.Query("page"))
	req.Limit, _ = strconv.Atoi(c.Query("limit"))

	data, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Books retrieved successfully", data)
}

// SearchBooks - GET /books/search?q=...&limit=...
func (h *Handler) SearchBooks(c *gin.Context) {
	req := model.SearchBooksRequest{Query: c.Query("q")}
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			response.HandleError(c, model.ErrInvalidSearchParams)
			return
		}
		req.Limit = n
	}

	results, err := h.service.SearchBooks(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Search completed", results)
}

// GetBook - GET /books/:id
func (h *Handler) GetBook(c *gin.Context) {
	b, err := h.service.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Book retrieved successfully", b)
}

// CreateBook - POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	id, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, "Book created successfully", model.CreateBookResponse{ID: id})
}

// UpdateBook - PUT /books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	b, err := h.service.UpdateBook(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Book updated successfully", b)
}

// DeleteBook - DELETE /books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	if err := h.service.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Book deleted successfully", nil)
}

// GetFilterOptions - GET /books/filters
func (h *Handler) GetFilterOptions(c *gin.Context) {
	opts, err := h.service.GetFilterOptions(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Filter options retrieved successfully", opts)
}
