// Package apierror provides standardized error response structures for the API
// and the classified errors raised by the record store.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"strings"
)

// Classification codes raised by the record store.
const (
	CodeStockConflict         = "stock_conflict"
	CodePromoBlocked          = "promo_blocked"
	CodeDuplicado             = "duplicado"
	CodeTransicionNoPermitida = "transicion_no_permitida"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Code is only set for classified conflicts so clients can branch on it.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func NewWithCode(msg, code string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// StoreError is a rejection raised by the record store with a classifiable code.
type StoreError struct {
	Code    string
	Message string
	Err     error
}

func NewStoreError(code, msg string) *StoreError {
	return &StoreError{Code: code, Message: msg}
}

func (e *StoreError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func (e *StoreError) Unwrap() error { return e.Err }

// coder is satisfied by any error that exposes a classification code.
type coder interface {
	ErrorCode() string
}

func (e *StoreError) ErrorCode() string { return e.Code }

// CodeOf extracts the classification code from err, lower-cased.
// It returns "" for nil or unclassified errors.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var c coder
	if errors.As(err, &c) {
		return strings.ToLower(strings.TrimSpace(c.ErrorCode()))
	}
	return ""
}
