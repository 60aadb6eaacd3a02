package domain

// StrPtr returns nil for an empty string, otherwise a pointer to s.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StrValue dereferences p, returning "" for nil.
func StrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
