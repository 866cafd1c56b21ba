package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/api/middleware"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/jwt"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/response"
)

// MustGetAccountID reads the account id injected by JWTAuth. It writes a
// 401 and returns false when missing; callers return immediately.
func MustGetAccountID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.CtxAccountID)
	if id == "" {
		response.Fail(c, middleware.ErrNoToken)
		return "", false
	}
	return id, true
}

// MustGetRole reads the effective role injected by JWTAuth.
func MustGetRole(c *gin.Context) (string, bool) {
	role := c.GetString(middleware.CtxRole)
	if role == "" {
		response.Fail(c, middleware.ErrNoToken)
		return "", false
	}
	return role, true
}

// MustGetClaims reads the full identity claim.
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.CtxClaims)
	if !exists {
		response.Fail(c, middleware.ErrNoToken)
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Fail(c, middleware.ErrNoToken)
		return nil, false
	}
	return claims, true
}
