package utils

// ToPtr returns a pointer to the given value
func ToPtr[T any](v T) *T {
	return &v
}

// FromPtr dereferences a pointer, returning the zero value for nil
func FromPtr[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
