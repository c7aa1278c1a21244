package config

import (
	"io"
	"time"
)

// Config reads typed values by dotted key (e.g. "app.server.http.address").
//
// Missing keys and values that cannot be converted yield the zero value of the
// requested type, so callers should register defaults for every key they read.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetUint8(key string) uint8
	GetUint32(key string) uint32
	GetFloat64(key string) float64

	// GetSecond reads an integer and returns it as a number of seconds.
	GetSecond(key string) time.Duration

	// GetArray reads a comma separated value (<element1>,<element2>,...).
	// Surrounding blanks and empty elements are dropped.
	GetArray(key string) []string
}
