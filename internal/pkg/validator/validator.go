package validator

// Validator validates dependency and request structs using struct tags.
type Validator interface {
	Validate(data any) error
}
