package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/sakib-101-git/EDU-ClassRepo/pkg/errors"
)

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindMissingFile, apperr.KindMissingCourse, apperr.KindEmptyName,
		apperr.KindDomain, apperr.KindWeakPassword,
		apperr.KindDuplicateEmail, apperr.KindDuplicateEnrollment:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnverifiedAccount, apperr.KindRoleMismatch, apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNoToken, apperr.KindInvalidToken, apperr.KindInvalidCredentials:
		return http.StatusUnauthorized
	case apperr.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes a typed error with its mapped status, code and safe message.
func Fail(c *gin.Context, e *apperr.Error) {
	Error(c, StatusOf(e.Kind), e.Code, e.Message)
}

// AbortFail is Fail for middleware: it also stops the chain.
func AbortFail(c *gin.Context, e *apperr.Error) {
	AbortWithError(c, StatusOf(e.Kind), e.Code, e.Message)
}
