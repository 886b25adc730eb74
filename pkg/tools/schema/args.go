package schema

// Args holds validated arguments for one invocation. Optional parameters that
// were not supplied are absent, never zero-filled. The zero value has no
// arguments.
type Args struct {
	values map[string]any
}

// Has reports whether name was supplied.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Number returns a number argument, or zero if absent.
func (a Args) Number(name string) float64 {
	f, _ := a.LookupNumber(name)
	return f
}

// LookupNumber returns a number argument and whether it was supplied.
func (a Args) LookupNumber(name string) (float64, bool) {
	f, ok := a.values[name].(float64)
	return f, ok
}

// String returns a string or enum argument, or "" if absent.
func (a Args) String(name string) string {
	s, _ := a.LookupString(name)
	return s
}

// LookupString returns a string or enum argument and whether it was supplied.
func (a Args) LookupString(name string) (string, bool) {
	s, ok := a.values[name].(string)
	return s, ok
}

// LookupStrings returns an array-of-string argument and whether it was
// supplied. A supplied empty array yields a non-nil empty slice.
func (a Args) LookupStrings(name string) ([]string, bool) {
	s, ok := a.values[name].([]string)
	return s, ok
}
