package clipboard

// NewTestSystem returns a System with an injected writer for tests.
func NewTestSystem(writeAll func(string) error, unsupported bool) *System {
	return &System{writeAll: writeAll, unsupported: unsupported}
}
