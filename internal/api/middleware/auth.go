package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/pkg/jwt"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/response"
)

// Context keys set by JWTAuth.
const (
	CtxAccountID = "account_id"
	CtxEmail     = "email"
	CtxRole      = "role"
	CtxClaims    = "claims"
)

// TokenChecker reports revoked token ids.
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth validates Authorization: Bearer <token> and injects the identity
// claim. It never reads the account store. checker may be nil, in which
// case revocation is not checked.
func JWTAuth(jwtMgr *jwt.Manager, checker TokenChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortFail(c, ErrNoToken)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			response.AbortFail(c, ErrInvalidToken)
			return
		}

		claims, err := jwtMgr.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.AbortFail(c, ErrTokenExpired)
				return
			}
			response.AbortFail(c, ErrInvalidToken)
			return
		}

		if checker != nil {
			revoked, err := checker.IsBlacklisted(c.Request.Context(), claims.ID)
			switch {
			case err != nil:
				// deny-list unavailable: fall back to signature and expiry only
				logger.Warn("token deny-list check failed", zap.Error(err))
			case revoked:
				response.AbortFail(c, ErrInvalidToken)
				return
			}
		}

		c.Set(CtxAccountID, claims.AccountID)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

// RoleAuth requires one of the given roles. Must run after JWTAuth.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			response.AbortFail(c, ErrNoToken)
			return
		}

		for _, r := range allowedRoles {
			if role == r {
				c.Next()
				return
			}
		}

		response.AbortFail(c, ErrForbidden)
	}
}
