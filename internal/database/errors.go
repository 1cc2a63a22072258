package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrUnavailable matches every failure returned by Pool.Now.
var ErrUnavailable = errors.New("database unavailable")

type Kind int

const (
	KindConnectFailed Kind = iota + 1
	KindAuthFailed
	KindQueryFailed
)

func (k Kind) String() string {
	switch k {
	case KindConnectFailed:
		return "connect_failed"
	case KindAuthFailed:
		return "auth_failed"
	case KindQueryFailed:
		return "query_failed"
	default:
		return "unknown"
	}
}

// MySQL server error numbers that mean the credentials were refused.
const (
	erDBAccessDenied     = 1044
	erAccessDenied       = 1045
	erAccessDeniedNoPass = 1698
)

// Error is a tagged database failure. It prints as the underlying error so
// callers can surface the driver's message verbatim.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrUnavailable
}

// KindOf reports the Kind of a failure returned by this package.
func KindOf(err error) (Kind, bool) {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Kind, true
	}
	return 0, false
}

func connectError(err error) *Error {
	if isAuthError(err) {
		return &Error{Kind: KindAuthFailed, Err: err}
	}
	return &Error{Kind: KindConnectFailed, Err: err}
}

func queryError(err error) *Error {
	return &Error{Kind: KindQueryFailed, Err: err}
}

func isAuthError(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}

	switch myErr.Number {
	case erDBAccessDenied, erAccessDenied, erAccessDeniedNoPass:
		return true
	default:
		return false
	}
}
