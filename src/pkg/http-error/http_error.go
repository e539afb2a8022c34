package httpError

import "net/http"

// CommonError is the payload every error object renders as.
type CommonError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func (e *CommonError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status of the error.
func (e *CommonError) StatusCode() int {
	return e.Code
}

// Payload exposes the renderable body.
func (e *CommonError) Payload() *CommonError {
	return e
}

type BadRequest struct{ CommonError }

type Unauthorized struct{ CommonError }

type Forbidden struct{ CommonError }

type NotFound struct{ CommonError }

type Conflict struct{ CommonError }

type UnprocessableEntity struct{ CommonError }

type InternalServerError struct{ CommonError }

func NewBadRequest() *BadRequest {
	return &BadRequest{CommonError{Code: http.StatusBadRequest, Message: "Bad Request"}}
}

func NewUnauthorized() *Unauthorized {
	return &Unauthorized{CommonError{Code: http.StatusUnauthorized, Message: "Unauthorized"}}
}

func NewForbidden() *Forbidden {
	return &Forbidden{CommonError{Code: http.StatusForbidden, Message: "Forbidden"}}
}

func NewNotFound() *NotFound {
	return &NotFound{CommonError{Code: http.StatusNotFound, Message: "Not Found"}}
}

func NewConflict() *Conflict {
	return &Conflict{CommonError{Code: http.StatusConflict, Message: "Conflict"}}
}

func NewUnprocessableEntity() *UnprocessableEntity {
	return &UnprocessableEntity{CommonError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable Entity"}}
}

func NewInternalServerError() *InternalServerError {
	return &InternalServerError{CommonError{Code: http.StatusInternalServerError, Message: "Internal Server Error"}}
}

// StatusCoder is implemented by every error object of this package.
type StatusCoder interface {
	error
	StatusCode() int
	Payload() *CommonError
}
