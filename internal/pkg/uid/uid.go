// Package uid provides ID generators: snowflake numbers for database rows
// and UUID strings for correlation IDs and object keys.
package uid

// NumberID generates int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
