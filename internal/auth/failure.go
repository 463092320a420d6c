package auth

import "net/http"

// FailureKind classifies credential and identity resolution failures.
type FailureKind string

const (
	FailNoToken        FailureKind = "NO_TOKEN"
	FailTokenExpired   FailureKind = "TOKEN_EXPIRED"
	FailTokenInvalid   FailureKind = "TOKEN_INVALID"
	FailInvalidPayload FailureKind = "INVALID_PAYLOAD"
	FailUserNotFound   FailureKind = "USER_NOT_FOUND"
	FailUserInactive   FailureKind = "USER_INACTIVE"
)

// Failure is a typed resolution failure carrying its HTTP status.
type Failure struct {
	Kind    FailureKind
	Status  int
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// HTTPStatus implements httpx.StatusCoder.
func (f *Failure) HTTPStatus() int {
	return f.Status
}

var (
	ErrNoToken        = &Failure{Kind: FailNoToken, Status: http.StatusUnauthorized, Message: "authentication token missing"}
	ErrTokenExpired   = &Failure{Kind: FailTokenExpired, Status: http.StatusUnauthorized, Message: "authentication token expired"}
	ErrTokenInvalid   = &Failure{Kind: FailTokenInvalid, Status: http.StatusUnauthorized, Message: "authentication token invalid"}
	ErrInvalidPayload = &Failure{Kind: FailInvalidPayload, Status: http.StatusUnauthorized, Message: "token payload missing subject"}
	ErrUserNotFound   = &Failure{Kind: FailUserNotFound, Status: http.StatusUnauthorized, Message: "user not found"}
	ErrUserInactive   = &Failure{Kind: FailUserInactive, Status: http.StatusForbidden, Message: "user account is inactive"}
)
