package config

import (
	"io"
	"time"
)

// Config exposes typed access to runtime configuration values.
//
// Implementations decide how missing keys are handled; callers should treat
// zero values as "not configured" and fall back to sensible defaults.
type Config interface {
	io.Closer

	// GetString retrieves the value for key as a string.
	GetString(key string) string

	// GetBool retrieves the value for key as a bool.
	GetBool(key string) bool

	// GetInt retrieves the value for key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value for key as an int32.
	GetInt32(key string) int32

	// GetInt64 retrieves the value for key as an int64.
	GetInt64(key string) int64

	// GetFloat64 retrieves the value for key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value for key as a duration in seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value for key as a duration in minutes.
	GetMinute(key string) time.Duration

	// GetHour retrieves the value for key as a duration in hours.
	GetHour(key string) time.Duration

	// GetBinary retrieves the base64-encoded value for key as raw bytes.
	GetBinary(key string) []byte

	// GetArray retrieves the comma-separated value for key as a string slice.
	GetArray(key string) []string

	// GetMap retrieves the "k1:v1,k2:v2" formatted value for key as a map.
	GetMap(key string) map[string]string
}
