package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrPolicyViolation = errors.New("policy violation")
)

// ViolationReason уточняет, чем именно нарушена политика.
// Для ядра все причины равнозначны, различает их только HTTP-слой.
type ViolationReason string

const (
	ReasonInvalid    ViolationReason = "invalid"
	ReasonTransition ViolationReason = "transition"
	ReasonDenied     ViolationReason = "denied"
	ReasonConflict   ViolationReason = "conflict"
)

// Violation: отказ в операции. errors.Is(v, ErrPolicyViolation) == true.
type Violation struct {
	Reason ViolationReason
	Msg    string
}

func (v *Violation) Error() string {
	return v.Msg
}

// Is позволяет сравнивать любую Violation с ErrPolicyViolation.
func (v *Violation) Is(target error) bool {
	return target == ErrPolicyViolation
}

// Invalid: пустое или некорректное поле.
func Invalid(format string, args ...any) error {
	return &Violation{Reason: ReasonInvalid, Msg: fmt.Sprintf(format, args...)}
}

// IllegalTransition: переход вне графа статусов.
func IllegalTransition[S ~string](from, to S) error {
	return &Violation{Reason: ReasonTransition, Msg: fmt.Sprintf("invalid status transition: %s -> %s", from, to)}
}

// Denied: у актора нет прав.
func Denied(format string, args ...any) error {
	return &Violation{Reason: ReasonDenied, Msg: fmt.Sprintf(format, args...)}
}

// Conflict: нарушена согласованность между сущностями.
func Conflict(format string, args ...any) error {
	return &Violation{Reason: ReasonConflict, Msg: fmt.Sprintf(format, args...)}
}

// NotFound оборачивает ErrNotFound идентификатором, которого не нашлось.
func NotFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// ReasonOf возвращает причину нарушения или "" для прочих ошибок.
func ReasonOf(err error) ViolationReason {
	var v *Violation
	if errors.As(err, &v) {
		return v.Reason
	}
	return ""
}
