package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/member/model"
	"library-backend/internal/domains/member/service"
	"library-backend/internal/shared/response"
)

const (
	pictureField    = "profile_picture"
	maxPictureBytes = 5 << 20
)

type MemberHandler struct {
	service service.Service
}

func NewMemberHandler(service service.Service) *MemberHandler {
	return &MemberHandler{service: service}
}

// List - GET /members
func (h *MemberHandler) List(c *gin.Context) {
	req := model.ListMembersRequest{
		Search:       c.Query("search"),
		Status:       c.Query("status"),
		Faculty:      c.Query("faculty"),
		StudyProgram: c.Query("study_program"),
	}
	req.Page, _ = strconv.Atoi(c.Query("page"))
	req.Limit, _ = strconv.Atoi(c.Query("limit"))

	data, err := h.service.ListMembers(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Members retrieved successfully", data)
}

// Get - GET /members/:id
func (h *MemberHandler) Get(c *gin.Context) {
	m, err := h.service.GetMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Member retrieved successfully", m)
}

// Create - POST /members, JSON or multipart with profile_picture
func (h *MemberHandler) Create(c *gin.Context) {
	var req model.CreateMemberRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	picture, ok := readPicture(c)
	if !ok {
		return
	}

	id, err := h.service.CreateMember(c.Request.Context(), req, picture)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, "Member created successfully", model.CreateMemberResponse{ID: id})
}

// Update - PUT /members/:id
func (h *MemberHandler) Update(c *gin.Context) {
	var req model.UpdateMemberRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	picture, ok := readPicture(c)
	if !ok {
		return
	}

	m, err := h.service.UpdateMember(c.Request.Context(), c.Param("id"), req, picture)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Member updated successfully", m)
}

// Delete - DELETE /members/:id
func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteMember(c.Request.Context(), c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Member deleted successfully", nil)
}

// FilterOptions - GET /members/filters
func (h *MemberHandler) FilterOptions(c *gin.Context) {
	opts, err := h.service.GetFilterOptions(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.OK(c, "Filter options retrieved successfully", opts)
}

// readPicture returns nil when no file was sent; ok=false means a response was written
func readPicture(c *gin.Context) (*model.Upload, bool) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, true
	}

	fh, err := c.FormFile(pictureField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		response.BadRequest(c, "Invalid profile picture upload")
		return nil, false
	}
	if fh.Size > maxPictureBytes {
		response.HandleError(c, model.ErrInvalidPicture)
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "Invalid profile picture upload")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPictureBytes+1))
	if err != nil {
		response.BadRequest(c, "Invalid profile picture upload")
		return nil, false
	}
	return &model.Upload{Filename: fh.Filename, Data: data}, true
}
