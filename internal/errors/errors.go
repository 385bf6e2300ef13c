package errors

import (
	"fmt"
	"strings"
)

// ErrorCategory represents different types of errors raised by the optimizer
type ErrorCategory string

const (
	// Construction-time failures, never recoverable for the current call
	ErrorCategoryValidation    ErrorCategory = "VALIDATION"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryInvalidGenes  ErrorCategory = "INVALID_GENES"

	// Runtime operator failures
	ErrorCategoryLengthMismatch         ErrorCategory = "LENGTH_MISMATCH"
	ErrorCategoryInsufficientPopulation ErrorCategory = "INSUFFICIENT_POPULATION"

	// Failures raised by collaborators around the engine
	ErrorCategoryEvaluation ErrorCategory = "EVALUATION"
	ErrorCategoryIO         ErrorCategory = "IO"
	ErrorCategoryNotFound   ErrorCategory = "NOT_FOUND"
)

// Sentinels for errors.Is matching by category
var (
	ErrValidation             = &OptimizerError{Category: ErrorCategoryValidation}
	ErrConfiguration          = &OptimizerError{Category: ErrorCategoryConfiguration}
	ErrInvalidGenes           = &OptimizerError{Category: ErrorCategoryInvalidGenes}
	ErrLengthMismatch         = &OptimizerError{Category: ErrorCategoryLengthMismatch}
	ErrInsufficientPopulation = &OptimizerError{Category: ErrorCategoryInsufficientPopulation}
	ErrEvaluation             = &OptimizerError{Category: ErrorCategoryEvaluation}
	ErrIO                     = &OptimizerError{Category: ErrorCategoryIO}
	ErrNotFound               = &OptimizerError{Category: ErrorCategoryNotFound}
)

// OptimizerError represents a categorized error with context
type OptimizerError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *OptimizerError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s", e.Category)
	if e.Component != "" {
		fmt.Fprintf(&b, ":%s", e.Component)
	}
	b.WriteString("]")
	if e.Operation != "" {
		fmt.Fprintf(&b, " %s", e.Operation)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping
func (e *OptimizerError) Unwrap() error {
	return e.Underlying
}

// Is matches any OptimizerError of the same category against a bare sentinel.
func (e *OptimizerError) Is(target error) bool {
	t, ok := target.(*OptimizerError)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	return t.Component == "" && t.Operation == "" && t.Message == "" && t.Category == e.Category
}

// WithContext adds context information to the error
func (e *OptimizerError) WithContext(key string, value interface{}) *OptimizerError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new categorized optimizer error
func New(category ErrorCategory, component, operation, message string) *OptimizerError {
	return &OptimizerError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with optimizer error context
func Wrap(err error, category ErrorCategory, component, operation string) *OptimizerError {
	if err == nil {
		return nil
	}

	return &OptimizerError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// CategoryOf returns the category of err, or "" when err carries none.
func CategoryOf(err error) ErrorCategory {
	for err != nil {
		if optErr, ok := err.(*OptimizerError); ok {
			return optErr.Category
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Common error constructors

func NewValidationError(component, operation string, format string, args ...interface{}) *OptimizerError {
	return New(ErrorCategoryValidation, component, operation, fmt.Sprintf(format, args...))
}

func NewConfigurationError(component, operation string, format string, args ...interface{}) *OptimizerError {
	return New(ErrorCategoryConfiguration, component, operation, fmt.Sprintf(format, args...))
}

func NewInvalidGenesError(component, operation string, format string, args ...interface{}) *OptimizerError {
	return New(ErrorCategoryInvalidGenes, component, operation, fmt.Sprintf(format, args...))
}

func NewLengthMismatchError(component, operation string, left, right int) *OptimizerError {
	return New(ErrorCategoryLengthMismatch, component, operation,
		fmt.Sprintf("gene vectors differ in length (%d vs %d)", left, right)).
		WithContext("left", left).
		WithContext("right", right)
}

func NewInsufficientPopulationError(component, operation string, required, available int) *OptimizerError {
	return New(ErrorCategoryInsufficientPopulation, component, operation,
		fmt.Sprintf("need at least %d evaluated individuals, have %d", required, available)).
		WithContext("required", required).
		WithContext("available", available)
}

func NewEvaluationError(component, operation string, err error) *OptimizerError {
	return Wrap(err, ErrorCategoryEvaluation, component, operation)
}

func NewIOError(component, operation string, err error) *OptimizerError {
	return Wrap(err, ErrorCategoryIO, component, operation)
}

func NewNotFoundError(component, operation, message string) *OptimizerError {
	return New(ErrorCategoryNotFound, component, operation, message)
}
