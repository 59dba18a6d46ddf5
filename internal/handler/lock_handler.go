package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pagemill/pagemill/internal/pkg/response"
	"github.com/pagemill/pagemill/internal/service"
)

type LockHandler struct {
	locks *service.LockService
}

func NewLockHandler(locks *service.LockService) *LockHandler {
	return &LockHandler{locks: locks}
}

func (h *LockHandler) Acquire(c *gin.Context) {
	lock, err := h.locks.Acquire(c.Request.Context(), c.Param("id"), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, lock)
}

func (h *LockHandler) Get(c *gin.Context) {
	lock, err := h.locks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, lock)
}

func (h *LockHandler) Release(c *gin.Context) {
	if err := h.locks.Release(c.Request.Context(), c.Param("id"), getUserID(c)); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, nil)
}
