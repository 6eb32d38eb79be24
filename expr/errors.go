package expr

import "errors"

var (
	// ErrDimensionMismatch indicates data length does not equal genes×units.
	ErrDimensionMismatch = errors.New("expr: data length does not match genes×units")

	// ErrDuplicateID indicates a repeated gene or unit identifier.
	ErrDuplicateID = errors.New("expr: duplicate identifier")

	// ErrEmptyID indicates an empty gene or unit identifier.
	ErrEmptyID = errors.New("expr: empty identifier")

	// ErrNegativeValue indicates a count entry below zero.
	ErrNegativeValue = errors.New("expr: negative count value")

	// ErrNotFinite indicates a NaN or ±Inf count entry.
	ErrNotFinite = errors.New("expr: non-finite count value")

	// ErrUnknownUnit indicates a lookup with an unknown unit identifier.
	ErrUnknownUnit = errors.New("expr: unknown unit identifier")

	// ErrUnknownGene indicates a lookup with an unknown gene identifier.
	ErrUnknownGene = errors.New("expr: unknown gene identifier")
)
