// Package validator checks struct tags for module dependencies and CLI input.
//
// Callers depend on the Validator interface; V10Validator is the
// go-playground/validator implementation with English messages and the
// "urlpath" rule.
package validator
