package core

import "fmt"

// ConfigError is a fatal descriptor configuration error. It is raised
// synchronously while a descriptor is compiled, before any factory is
// produced or DOM wiring occurs, and is never retried.
type ConfigError struct {
	// Type is the identity of the offending directive/component type.
	Type string
	// Rule names the specific validation rule that was violated.
	Rule string
	// Detail carries the offending value, when there is one.
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Rule)
	}
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Rule, e.Detail)
}

// NewConfigError creates a ConfigError for the given type and rule. The
// detail arguments are formatted as in fmt.Sprintf.
func NewConfigError(typeName, rule, format string, args ...any) *ConfigError {
	return &ConfigError{
		Type:   typeName,
		Rule:   rule,
		Detail: fmt.Sprintf(format, args...),
	}
}
