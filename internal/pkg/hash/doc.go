// Package hash provides helpers for hashing and verifying secrets.
//
// Typical usage is for password hashing: store only the encoded hash, then
// verify user input by comparing the plaintext against it. The argon2
// implementation encodes its parameters in the PHC string format so a hash
// stays verifiable after the configured cost changes.
package hash
