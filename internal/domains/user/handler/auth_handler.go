package handler

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/user/model"
	"library-backend/internal/domains/user/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type AuthHandler struct {
	service service.Service
}

func NewAuthHandler(service service.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login - POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Login successful", res)
}

// Me - GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "User is not authenticated")
		return
	}

	u, err := h.service.Me(c.Request.Context(), identity.ID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Profile retrieved successfully", u)
}
