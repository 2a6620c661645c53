package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http/response"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/tracking"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type StudioHandler struct {
	studio services.StudioService
}

func NewStudioHandler(studio services.StudioService) *StudioHandler {
	return &StudioHandler{studio: studio}
}

// GET /api/studio/courses
func (h *StudioHandler) ListCourses(c *gin.Context) {
	sums, err := h.studio.Summaries(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": sums})
}

// GET /api/studio/courses/:id
func (h *StudioHandler) GetCourse(c *gin.Context) {
	doc, err := h.studio.Course(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, doc)
}

type blockUpdateRequest struct {
	tracking.BlockKey
	Completed *bool `json:"completed"`
}

// PUT /api/studio/courses/:id/blocks
func (h *StudioHandler) UpdateBlock(c *gin.Context) {
	var req blockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Completed == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("completed is required"))
		return
	}
	out, err := h.studio.UpdateBlock(c.Request.Context(), c.Param("id"), req.BlockKey, *req.Completed)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/studio/courses/:id/blocks/details
func (h *StudioHandler) BlockDetails(c *gin.Context) {
	var key tracking.BlockKey
	if err := c.ShouldBindJSON(&key); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	blk, err := h.studio.BlockDetails(c.Request.Context(), c.Param("id"), key)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"block": blk})
}

type tutorRequest struct {
	tracking.BlockKey
	Question string `json:"question"`
}

// PUT /api/studio/courses/:id/blocks/chat
func (h *StudioHandler) Tutor(c *gin.Context) {
	var req tutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	turn, err := h.studio.Tutor(c.Request.Context(), c.Param("id"), req.BlockKey, req.Question)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, turn)
}

// GET /api/studio/courses/:id/export?format=md|html
func (h *StudioHandler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	switch format := strings.ToLower(c.DefaultQuery("format", "md")); format {
	case "md", "markdown":
		md, err := h.studio.ExportMarkdown(ctx, id)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+id+`.md"`)
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
	case "html":
		html, err := h.studio.ExportHTML(ctx, id)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_format", errors.New("format must be md or html"))
	}
}
