package runtime

// ControllerBase is a map-backed Controller implementation host bridges and
// tests can embed. Its zero value is ready to use. Invoke dispatches to
// properties holding func(...any) any values; embedding types override it
// when they dispatch to real methods.
type ControllerBase struct {
	props map[string]any
}

func (b *ControllerBase) Property(name string) any {
	return b.props[name]
}

func (b *ControllerBase) SetProperty(name string, value any) {
	if b.props == nil {
		b.props = map[string]any{}
	}
	b.props[name] = value
}

func (b *ControllerBase) Invoke(method string, args ...any) any {
	if fn, ok := b.props[method].(func(args ...any) any); ok {
		return fn(args...)
	}
	return nil
}
