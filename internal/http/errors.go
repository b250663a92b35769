package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"issue_tracker/internal/domain"
)

// ErrorCode коды ErrorResponse.error.code
type ErrorCode string

const (
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeInvalid           ErrorCode = "INVALID"
	CodeIllegalTransition ErrorCode = "ILLEGAL_TRANSITION"
	CodeNotPermitted      ErrorCode = "NOT_PERMITTED"
	CodeConflict          ErrorCode = "CONFLICT"
)

type errorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

type ErrorResponse struct {
	Error errorBody `json:"error"`
}

type ErrorHTTP struct {
	Status int
	Body   *ErrorResponse
}

func newErrorHTTP(status int, code ErrorCode, msg string) *ErrorHTTP {
	return &ErrorHTTP{
		Status: status,
		Body: &ErrorResponse{
			Error: errorBody{Code: code, Message: msg},
		},
	}
}

// FromDomainError из ошибки домена генерируем ответ
func FromDomainError(err error) *ErrorHTTP {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return newErrorHTTP(http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrPolicyViolation):
		switch domain.ReasonOf(err) {
		case domain.ReasonInvalid:
			return newErrorHTTP(http.StatusBadRequest, CodeInvalid, err.Error())
		case domain.ReasonTransition:
			return newErrorHTTP(http.StatusConflict, CodeIllegalTransition, err.Error())
		case domain.ReasonDenied:
			return newErrorHTTP(http.StatusForbidden, CodeNotPermitted, err.Error())
		default:
			return newErrorHTTP(http.StatusConflict, CodeConflict, err.Error())
		}
	default:
		// Неописанная ошибка будет возвращать 500 без тела
		return &ErrorHTTP{
			Status: http.StatusInternalServerError,
			Body:   nil,
		}
	}
}

// WriteError утилита для хендлеров. Ошибка прикрепляется к контексту, чтобы её увидел лог запроса.
func WriteError(c *gin.Context, err error) {
	_ = c.Error(err)
	httpErr := FromDomainError(err)

	if httpErr.Body == nil {
		c.AbortWithStatus(httpErr.Status)
		return
	}
	c.AbortWithStatusJSON(httpErr.Status, httpErr.Body)
}

// badRequest: ошибка разбора запроса, до сервисов дело не дошло.
func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, newErrorHTTP(http.StatusBadRequest, CodeInvalid, msg).Body)
}
