package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pagemill/pagemill/internal/pkg/errcode"
	"github.com/pagemill/pagemill/internal/pkg/response"
	"github.com/pagemill/pagemill/internal/service"
)

type CollectionHandler struct {
	collections *service.CollectionService
}

func NewCollectionHandler(collections *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

type collectionRequest struct {
	Name string `json:"name"`
}

func (h *CollectionHandler) Create(c *gin.Context) {
	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	collection, err := h.collections.Create(c.Request.Context(), req.Name)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, collection)
}

func (h *CollectionHandler) List(c *gin.Context) {
	collections, err := h.collections.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, collections)
}

func (h *CollectionHandler) Get(c *gin.Context) {
	collection, err := h.collections.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, collection)
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	if err := h.collections.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, nil)
}
