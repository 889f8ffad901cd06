package main

import "errors"

// Validation failures the engine translates into user-facing replies.
var (
	ErrDateFormat       = errors.New("unrecognized date format")
	ErrFutureDate       = errors.New("purchase date is after today")
	ErrInsufficientArgs = errors.New("not enough arguments")
	ErrNonNumericPrice  = errors.New("price is not numeric")

	ErrNonNumericIndex = errors.New("index is not numeric")
	ErrInvalidIndex    = errors.New("index out of range")
	ErrRecordNotFound  = errors.New("record no longer exists")
)
