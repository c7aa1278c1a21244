package entity

import "errors"

var (
	// ErrNetwork means the server answered with a non-2xx status.
	ErrNetwork = errors.New("network response was not ok")
	// ErrTransport means the request could not complete or its body could not be read.
	ErrTransport = errors.New("request could not complete")
	// ErrHash means the password hash could not be computed.
	ErrHash = errors.New("password hashing failed")
	// ErrVerify means the password did not verify against its own encoded hash.
	ErrVerify = errors.New("password verification failed")
	// ErrElementNotFound means the page has no element for the selector.
	ErrElementNotFound = errors.New("element not found")
	// ErrAlreadyLoaded is returned by a second Load on the same page.
	ErrAlreadyLoaded = errors.New("page already loaded")
)
