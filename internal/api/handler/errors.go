package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/api/middleware"
	apperr "github.com/sakib-101-git/EDU-ClassRepo/pkg/errors"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/response"
)

var errBadBody = apperr.New(apperr.KindValidation, 10001, "invalid request body")

// respondError writes typed errors with their status and safe message.
// Anything untyped is logged and reported as a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if e, ok := apperr.As(err); ok {
		if e.Kind == apperr.KindInternal {
			logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
		}
		response.Fail(c, e)
		return
	}

	logger.Error("unhandled error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	_ = c.Error(err)
	response.InternalError(c)
}

// bindJSON decodes the body; a malformed body is a validation error and an
// oversized one is a payload error.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Fail(c, middleware.ErrBodyTooLarge)
			return false
		}
		response.Fail(c, errBadBody)
		return false
	}
	return true
}
