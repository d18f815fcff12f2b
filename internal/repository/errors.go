package repository

import "errors"

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateEmail    = errors.New("email already registered")
)
