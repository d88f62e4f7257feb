// Package validator wraps go-playground/validator v10 behind a small
// interface so usecases can validate inputs without importing the library.
package validator

// Validator validates annotated structs.
type Validator interface {
	// Validate returns nil when data passes, or an error describing the
	// failed fields.
	Validate(data any) error
}
