// Package host classifies the raw host mapping of a descriptor into static
// attributes, reactive bindings and event listeners.
package host

import (
	"regexp"
	"strings"

	"ngadapter-go/packages/adapter/core"
)

// hostKeyRegexp recognizes "[binding]" and "(event)" host keys. Anything
// else is a static attribute.
var hostKeyRegexp = regexp.MustCompile(`^(?:\[([^\]]+)\])|(?:\(([^\)]+)\))$`)

const (
	groupBinding = 1
	groupEvent   = 2
)

// listenerRegexp recognizes "methodName(arg1,arg2,...)" listener values.
var listenerRegexp = regexp.MustCompile(`^(\w+)\s*\(\s*(.*?)\s*\)$`)

const (
	classPrefix = "class."
	attrPrefix  = "attr."
)

// Spec is the classified host mapping. The three reactive mappings associate
// a class/attribute/property name with the controller source expression that
// drives it; Listeners associates an event name with the handler method name
// followed by its parameter paths; Static holds attribute values applied
// once at attach time.
type Spec struct {
	Classes    map[string]string
	Attributes map[string]string
	Properties map[string]string
	Listeners  map[string][]string
	Static     map[string]string
}

// Process classifies a raw host mapping. It returns nil when no host mapping
// is supplied; callers treat that as "no host wiring". Malformed listener
// values and parameter paths not rooted at $event are compile-time errors.
func Process(typeName string, hostMapping map[string]string) (*Spec, error) {
	if len(hostMapping) == 0 {
		return nil, nil
	}

	spec := &Spec{
		Classes:    map[string]string{},
		Attributes: map[string]string{},
		Properties: map[string]string{},
		Listeners:  map[string][]string{},
		Static:     map[string]string{},
	}

	for key, value := range hostMapping {
		matches := hostKeyRegexp.FindStringSubmatch(key)
		switch {
		case matches == nil:
			spec.Static[key] = value
		case matches[groupBinding] != "":
			binding := matches[groupBinding]
			switch {
			case strings.HasPrefix(binding, classPrefix):
				spec.Classes[binding[len(classPrefix):]] = value
			case strings.HasPrefix(binding, attrPrefix):
				spec.Attributes[binding[len(attrPrefix):]] = value
			default:
				spec.Properties[binding] = value
			}
		case matches[groupEvent] != "":
			listener, err := parseListener(typeName, key, value)
			if err != nil {
				return nil, err
			}
			spec.Listeners[matches[groupEvent]] = listener
		}
	}

	return spec, nil
}

// parseListener validates a listener value and splits it into the handler
// method name followed by its parameter paths.
func parseListener(typeName, key, value string) ([]string, error) {
	matches := listenerRegexp.FindStringSubmatch(value)
	if matches == nil {
		return nil, core.NewConfigError(typeName, "malformed host listener",
			"%q value %q does not match methodName(arg1,...)", key, value)
	}

	listener := []string{matches[1]}
	if matches[2] == "" {
		return listener, nil
	}

	for _, arg := range strings.Split(matches[2], ",") {
		arg = strings.TrimSpace(arg)
		if !validListenerArg(arg) {
			return nil, core.NewConfigError(typeName, "invalid host listener parameter",
				"%q argument %q must be $event or a dotted path rooted at $event", key, arg)
		}
		listener = append(listener, arg)
	}
	return listener, nil
}

func validListenerArg(arg string) bool {
	if arg == "$event" {
		return true
	}
	if !strings.HasPrefix(arg, "$event.") {
		return false
	}
	for _, segment := range strings.Split(arg[len("$event."):], ".") {
		if segment == "" {
			return false
		}
	}
	return true
}
