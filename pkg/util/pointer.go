package util

// StringPointer returns nil for the empty string, otherwise a pointer to s.
func StringPointer(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
