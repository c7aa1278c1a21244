// Package uid generates identifiers used to correlate requests and log lines.
package uid

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}
