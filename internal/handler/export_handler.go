package handler

import (
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pagemill/pagemill/internal/pkg/errcode"
	"github.com/pagemill/pagemill/internal/pkg/response"
	"github.com/pagemill/pagemill/internal/service"
)

type ExportHandler struct {
	exports *service.ExportService
}

func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

type exportResponse struct {
	Key string `json:"key"`
}

func (h *ExportHandler) Export(c *gin.Context) {
	key, err := h.exports.ExportRelease(c.Request.Context(), c.Param("id"), c.Param("release"), c.Query("edition"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, exportResponse{Key: key})
}

func (h *ExportHandler) Download(c *gin.Context) {
	key := c.Param("key")
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "\\") {
		response.Error(c, errcode.ErrInvalid, "invalid key")
		return
	}
	file, err := h.exports.Open(c.Request.Context(), key)
	if err != nil {
		response.Error(c, errcode.ErrNotFound, "export not found")
		return
	}
	defer file.Close()
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", key))
	_, _ = io.Copy(c.Writer, file)
}
