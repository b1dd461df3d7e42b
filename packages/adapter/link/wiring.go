package link

import (
	"fmt"
	"strings"

	"ngadapter-go/packages/adapter/bindings"
	"ngadapter-go/packages/adapter/core"
	"ngadapter-go/packages/adapter/host"
	"ngadapter-go/packages/adapter/runtime"
)

// activateBindings wires the declared input/output/attribute bindings of a
// plain directive. The attribute carrying the parent expression is named by
// the binding alias, falling back to the property name.
func activateBindings(spec *Spec, rc runtime.ReactiveContext, attrs runtime.AttributeHandle, ctrl runtime.Controller) []func() {
	var releases []func()

	for property, tagged := range spec.Bindings {
		mode, alias := bindings.Parse(tagged)
		name := alias
		if name == "" {
			name = property
		}

		switch mode {
		case core.BindingTwoWay:
			expr, ok := attrs.Get(name)
			if !ok {
				continue
			}
			property := property
			releases = append(releases,
				rc.WatchExpression(expr, func(newVal, oldVal any) {
					ctrl.SetProperty(property, newVal)
				}),
				rc.Watch(func() any { return ctrl.Property(property) },
					func(newVal, oldVal any) {
						rc.Assign(expr, newVal)
					}),
			)

		case core.BindingAttributeText:
			property := property
			releases = append(releases, attrs.Observe(name, func(value string) {
				ctrl.SetProperty(property, value)
			}))

		case core.BindingEventCallback:
			expr, ok := attrs.Get(name)
			if !ok {
				continue
			}
			ctrl.SetProperty(property, func(locals map[string]any) any {
				return rc.Eval(expr, locals)
			})
		}
	}

	return releases
}

func applyStaticAttributes(el runtime.ElementHandle, static map[string]string) {
	for name, value := range static {
		el.SetAttribute(name, value)
	}
}

// watchHostBindings installs one watch per reactive host binding. Class
// bindings toggle on truthiness, attribute bindings format the value (nil
// removes the attribute), property bindings assign the raw value to the DOM
// node property.
func watchHostBindings(rc runtime.ReactiveContext, el runtime.ElementHandle, ctrl runtime.Controller, spec *host.Spec) []func() {
	var releases []func()

	for class, expr := range spec.Classes {
		class, expr := class, expr
		releases = append(releases, rc.Watch(controllerGetter(ctrl, expr),
			func(newVal, oldVal any) {
				if truthy(newVal) {
					el.AddClass(class)
				} else {
					el.RemoveClass(class)
				}
			}))
	}

	for attr, expr := range spec.Attributes {
		attr, expr := attr, expr
		releases = append(releases, rc.Watch(controllerGetter(ctrl, expr),
			func(newVal, oldVal any) {
				if newVal == nil {
					el.RemoveAttribute(attr)
					return
				}
				el.SetAttribute(attr, fmt.Sprintf("%v", newVal))
			}))
	}

	for property, expr := range spec.Properties {
		property, expr := property, expr
		releases = append(releases, rc.Watch(controllerGetter(ctrl, expr),
			func(newVal, oldVal any) {
				el.SetProperty(property, newVal)
			}))
	}

	return releases
}

// installHostListeners attaches one DOM listener per declared host event.
// The handler resolves the $event parameter paths, invokes the controller
// method inside an async-applied block and suppresses the default action
// unless the method returned a truthy value.
func installHostListeners(rc runtime.ReactiveContext, el runtime.ElementHandle, ctrl runtime.Controller, listeners map[string][]string) []func() {
	var releases []func()

	for event, listener := range listeners {
		method, params := listener[0], listener[1:]
		releases = append(releases, el.AddEventListener(event, func(ev runtime.Event) {
			rc.ApplyAsync(func() {
				args := make([]any, len(params))
				for i, param := range params {
					args[i] = resolveEventArg(ev, param)
				}
				if !truthy(ctrl.Invoke(method, args...)) {
					ev.PreventDefault()
				}
			})
		}))
	}

	return releases
}

func resolveEventArg(ev runtime.Event, param string) any {
	if param == "$event" {
		return ev
	}
	return ev.Path(strings.TrimPrefix(param, "$event."))
}

// controllerGetter evaluates a dotted property path against the controller
// instance on every call. Missing segments yield nil.
func controllerGetter(ctrl runtime.Controller, expr string) func() any {
	segments := strings.Split(expr, ".")
	return func() any {
		value := ctrl.Property(segments[0])
		for _, segment := range segments[1:] {
			switch v := value.(type) {
			case runtime.Controller:
				value = v.Property(segment)
			case map[string]any:
				value = v[segment]
			default:
				return nil
			}
		}
		return value
	}
}

// truthy mirrors the host runtime's notion of truthiness for listener
// results and class bindings.
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case int:
		return value != 0
	case int64:
		return value != 0
	case float64:
		return value != 0
	default:
		return true
	}
}
