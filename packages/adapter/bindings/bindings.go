// Package bindings converts input/output/attribute binding declarations into
// the normalized alias table consumed by the link machinery and the host
// runtime.
package bindings

import (
	"ngadapter-go/packages/adapter/core"
	"ngadapter-go/packages/adapter/util"
)

// Map associates a bound controller property name with its tagged binding
// string: "=alias" two-way, "@alias" attribute text, "&alias" event
// callback. An empty alias means the external name equals the property name.
// A Map is built once per descriptor and read-only thereafter.
type Map map[string]string

// Synthesize merges the three declaration sequences into one alias table.
// Declarations use the "propertyName[:externalAlias]" syntax. A property
// declared in more than one category is a caller error and fails the
// compilation.
func Synthesize(typeName string, inputs, attrs, outputs []string) (Map, error) {
	m := Map{}

	add := func(declarations []string, mode core.BindingMode) error {
		for _, declaration := range declarations {
			parts := util.SplitAtColon(declaration, []string{declaration, ""})
			name := parts[0]
			if _, exists := m[name]; exists {
				return core.NewConfigError(typeName, "binding collision",
					"property %q is declared in more than one binding category", name)
			}
			m[name] = mode.Tag() + parts[1]
		}
		return nil
	}

	if err := add(inputs, core.BindingTwoWay); err != nil {
		return nil, err
	}
	if err := add(attrs, core.BindingAttributeText); err != nil {
		return nil, err
	}
	if err := add(outputs, core.BindingEventCallback); err != nil {
		return nil, err
	}
	return m, nil
}

// Parse splits a tagged binding string into its mode and alias.
func Parse(tagged string) (core.BindingMode, string) {
	if tagged == "" {
		return core.BindingTwoWay, ""
	}
	alias := tagged[1:]
	switch tagged[0] {
	case '@':
		return core.BindingAttributeText, alias
	case '&':
		return core.BindingEventCallback, alias
	default:
		return core.BindingTwoWay, alias
	}
}
