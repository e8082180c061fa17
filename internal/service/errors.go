package service

import (
	"errors"
	"fmt"
)

var (
	ErrFollowSelf = errors.New("cannot follow self")
)

// Kind 错误类别，决定 HTTP 状态码
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error 业务错误；Detail 原样返回给客户端
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Detail) }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// 客户端依赖的固定文案
const (
	DetailNotFound         = "Not found."
	DetailNoPermission     = "You do not have permission to perform this action."
	DetailNoFollow         = "No permission(folllow)."
	DetailNoEmail          = "There's no email data."
	DetailNotAuthenticated = "Authentication credentials were not provided."
	DetailBadCredentials   = "No active account found with the given credentials"
)

func ErrBadRequest(format string, args ...interface{}) *Error {
	return newError(KindBadRequest, format, args...)
}

func ErrUnauthorized(detail string) *Error { return newError(KindUnauthorized, "%s", detail) }

func ErrForbidden(detail string) *Error { return newError(KindForbidden, "%s", detail) }

func ErrNotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func ErrConflict(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

// KindOf 返回业务错误类别；非业务错误返回 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
