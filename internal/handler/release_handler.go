package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pagemill/pagemill/internal/pkg/errcode"
	"github.com/pagemill/pagemill/internal/pkg/response"
	"github.com/pagemill/pagemill/internal/service"
)

type ReleaseHandler struct {
	releases *service.ReleaseService
}

func NewReleaseHandler(releases *service.ReleaseService) *ReleaseHandler {
	return &ReleaseHandler{releases: releases}
}

type releaseRequest struct {
	Name         string `json:"name"`
	CopyContents bool   `json:"copy_contents"`
}

func (h *ReleaseHandler) Create(c *gin.Context) {
	var req releaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	release, err := h.releases.Create(c.Request.Context(), c.Param("id"), req.Name, req.CopyContents, getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, release)
}

func (h *ReleaseHandler) List(c *gin.Context) {
	releases, err := h.releases.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, releases)
}

func (h *ReleaseHandler) Get(c *gin.Context) {
	release, err := h.releases.Get(c.Request.Context(), c.Param("id"), c.Param("release"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, release)
}

// Resolve lists every content item of the collection as it stood in the
// named release.
func (h *ReleaseHandler) Resolve(c *gin.Context) {
	versions, err := h.releases.ResolveCollection(c.Request.Context(), c.Param("id"), c.Param("release"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, versions)
}
