package domain

import "errors"

var (
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadyResolved  = errors.New("correction already resolved")
	ErrFieldNotEditable = errors.New("field not open to corrections")
)
