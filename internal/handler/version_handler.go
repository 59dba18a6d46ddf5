package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pagemill/pagemill/internal/pkg/errcode"
	"github.com/pagemill/pagemill/internal/pkg/response"
	"github.com/pagemill/pagemill/internal/service"
)

type VersionHandler struct {
	contents        *service.ContentService
	historyPageSize int
}

func NewVersionHandler(contents *service.ContentService, historyPageSize int) *VersionHandler {
	return &VersionHandler{contents: contents, historyPageSize: historyPageSize}
}

func (h *VersionHandler) List(c *gin.Context) {
	limit := h.historyPageSize
	if value := c.Query("limit"); value != "" {
		parsed, ok := parsePositiveInt(value)
		if !ok {
			response.Error(c, errcode.ErrInvalid, "invalid limit")
			return
		}
		limit = parsed
	}
	history, err := h.contents.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, history)
}

func (h *VersionHandler) Get(c *gin.Context) {
	number, ok := parsePositiveInt(c.Param("version"))
	if !ok {
		response.Error(c, errcode.ErrInvalid, "invalid version")
		return
	}
	version, err := h.contents.GetVersion(c.Request.Context(), c.Param("id"), number)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, version)
}

func (h *VersionHandler) Restore(c *gin.Context) {
	number, ok := parsePositiveInt(c.Param("version"))
	if !ok {
		response.Error(c, errcode.ErrInvalid, "invalid version")
		return
	}
	content, err := h.contents.Restore(c.Request.Context(), getUserID(c), c.Param("id"), number)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, content)
}

func (h *VersionHandler) Diff(c *gin.Context) {
	from, okFrom := parsePositiveInt(c.Query("from"))
	to, okTo := parsePositiveInt(c.Query("to"))
	if !okFrom || !okTo {
		response.Error(c, errcode.ErrInvalid, "from and to versions required")
		return
	}
	lines, err := h.contents.Diff(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, lines)
}

func (h *VersionHandler) MarkReleaseEnd(c *gin.Context) {
	marked, err := h.contents.MarkReleaseEnd(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, marked)
}

type purgeResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *VersionHandler) Purge(c *gin.Context) {
	deleted, err := h.contents.PurgeVersions(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, purgeResponse{Deleted: deleted})
}

type purgeableResponse struct {
	Purgeable int64 `json:"purgeable"`
}

func (h *VersionHandler) CountPurgeable(c *gin.Context) {
	count, err := h.contents.CountPurgeable(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, purgeableResponse{Purgeable: count})
}
