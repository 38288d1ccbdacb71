package validator

// Validator validates a struct and returns nil or a field error.
type Validator interface {
	Validate(data any) error
}
