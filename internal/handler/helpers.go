package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/pagemill/pagemill/internal/pkg/errcode"
	appErr "github.com/pagemill/pagemill/internal/pkg/errors"
	"github.com/pagemill/pagemill/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get("user_id")
	userID, _ := value.(string)
	return userID
}

func handleError(c *gin.Context, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, appErr.ErrInvalidMove):
		response.Error(c, errcode.ErrInvalidMove, err.Error())
	case errors.Is(err, appErr.ErrMalformedTree):
		response.Error(c, errcode.ErrMalformedTree, err.Error())
	case errors.Is(err, appErr.ErrDuplicateRelease):
		response.Error(c, errcode.ErrDuplicateRelease, "release name already used")
	case appErr.IsVersionConflict(err):
		response.Error(c, errcode.ErrVersionConflict, "version conflict, re-read and retry")
	case appErr.IsLocked(err):
		response.Error(c, errcode.ErrLocked, "content is locked by another editor")
	case appErr.IsNotFound(err):
		response.Error(c, errcode.ErrNotFound, "not found")
	case appErr.IsConflict(err):
		response.Error(c, errcode.ErrConflict, "conflict")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	default:
		logutil.GetLogger(c.Request.Context()).Error("request fail",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
