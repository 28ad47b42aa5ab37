package usecase

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrProfileIncomplete = errors.New("profile incomplete")
	ErrInternal          = errors.New("internal error")
)
