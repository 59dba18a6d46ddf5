package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pagemill/pagemill/internal/model"
	"github.com/pagemill/pagemill/internal/pkg/errcode"
	"github.com/pagemill/pagemill/internal/pkg/response"
	"github.com/pagemill/pagemill/internal/service"
)

type ContentHandler struct {
	contents *service.ContentService
}

func NewContentHandler(contents *service.ContentService) *ContentHandler {
	return &ContentHandler{contents: contents}
}

type contentRequest struct {
	Title      string                 `json:"title"`
	Slug       string                 `json:"slug"`
	Status     string                 `json:"status"`
	Editions   []string               `json:"editions"`
	Elements   []model.Element        `json:"elements"`
	Metadata   map[string]interface{} `json:"metadata"`
	ChangeNote string                 `json:"change_note"`
}

func (h *ContentHandler) Create(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	content, err := h.contents.Create(c.Request.Context(), getUserID(c), service.CreateContentInput{
		CollectionID: c.Param("id"),
		Title:        req.Title,
		Slug:         req.Slug,
		Status:       model.ContentStatus(req.Status),
		Editions:     req.Editions,
		Elements:     req.Elements,
		Metadata:     req.Metadata,
		ChangeNote:   req.ChangeNote,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, content)
}

func (h *ContentHandler) List(c *gin.Context) {
	contents, err := h.contents.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, contents)
}

func (h *ContentHandler) Get(c *gin.Context) {
	content, err := h.contents.Get(c.Request.Context(), c.Param("id"), c.Query("edition"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, content)
}

// GetAtRelease serves the content item as it stood in the named release.
func (h *ContentHandler) GetAtRelease(c *gin.Context) {
	version, err := h.contents.GetAtRelease(c.Request.Context(), c.Param("id"), c.Param("release"), c.Query("edition"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, version)
}

func (h *ContentHandler) Update(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	content, err := h.contents.Update(c.Request.Context(), getUserID(c), c.Param("id"), service.UpdateContentInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Status:     model.ContentStatus(req.Status),
		Editions:   req.Editions,
		Elements:   req.Elements,
		Metadata:   req.Metadata,
		ChangeNote: req.ChangeNote,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, content)
}

func (h *ContentHandler) Delete(c *gin.Context) {
	if err := h.contents.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, nil)
}

type moveRequest struct {
	NewParentID string `json:"new_parent_id"`
	NewOrder    *int   `json:"new_order"`
}

func (h *ContentHandler) Move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.NewOrder == nil {
		response.Error(c, errcode.ErrInvalid, "new_order required")
		return
	}
	content, err := h.contents.MoveElement(c.Request.Context(), getUserID(c), c.Param("id"), c.Param("eid"), req.NewParentID, *req.NewOrder)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, content)
}

// Flatten serves the element outline for pickers, one row per element in
// document order.
func (h *ContentHandler) Flatten(c *gin.Context) {
	flat, err := h.contents.Flatten(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, flat)
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
