// Package clock lets use cases measure latency against an injectable time source.
package clock
