package util

// Ptr returns a pointer to a copy of v, for optional ids and literals.
func Ptr[T any](v T) *T {
	return &v
}
