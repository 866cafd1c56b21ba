package middleware

import apperr "github.com/sakib-101-git/EDU-ClassRepo/pkg/errors"

var (
	ErrNoToken      = apperr.New(apperr.KindNoToken, 10002, "no token provided")
	ErrInvalidToken = apperr.New(apperr.KindInvalidToken, 10002, "invalid token")
	ErrTokenExpired = apperr.New(apperr.KindInvalidToken, 10002, "token expired")
	ErrForbidden    = apperr.New(apperr.KindForbidden, 10003, "insufficient permissions")
	ErrRateLimited  = apperr.New(apperr.KindRateLimited, 10004, "too many requests, try again later")
	ErrBodyTooLarge = apperr.New(apperr.KindPayloadTooLarge, 10005, "request body too large")
)
