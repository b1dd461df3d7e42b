// Package compiler orchestrates descriptor compilation: it turns a resolved
// directive/component descriptor plus the required-controller map and
// lifecycle-hook flags into the (name, factory) pair consumed by the host
// runtime.
package compiler

import (
	"log/slog"
	"strings"

	"ngadapter-go/packages/adapter/bindings"
	"ngadapter-go/packages/adapter/core"
	"ngadapter-go/packages/adapter/css"
	"ngadapter-go/packages/adapter/host"
	"ngadapter-go/packages/adapter/link"
	"ngadapter-go/packages/adapter/runtime"
	"ngadapter-go/packages/adapter/util"
)

// Factory returns the composed runtime directive record. It is idempotent:
// the host invokes it once per descriptor and every call yields the same
// record; per-node state lives entirely in the link closures.
type Factory func() *runtime.Directive

// CompileDirective compiles a template-less directive descriptor.
// controller is the controller token handed through to the host runtime.
func CompileDirective(typeName string, desc *core.Directive, controller any, requires []core.RequiredController, hooks core.HookFlags) (string, Factory, error) {
	return compile(typeName, desc, nil, controller, requires, hooks)
}

// CompileComponent compiles a component descriptor.
func CompileComponent(typeName string, desc *core.Component, controller any, requires []core.RequiredController, hooks core.HookFlags) (string, Factory, error) {
	return compile(typeName, &desc.Directive, desc, controller, requires, hooks)
}

func compile(typeName string, desc *core.Directive, component *core.Component, controller any, requires []core.RequiredController, hooks core.HookFlags) (string, Factory, error) {
	if desc.CustomCompile != nil {
		desc = desc.CustomCompile(desc)
	}

	name, err := directiveName(typeName, desc.Selector)
	if err != nil {
		return "", nil, err
	}

	bindingMap, err := bindings.Synthesize(typeName, desc.Inputs, desc.Attrs, desc.Outputs)
	if err != nil {
		return "", nil, err
	}

	hostSpec, err := host.Process(typeName, desc.Host)
	if err != nil {
		return "", nil, err
	}

	slots, requireNames := requireSlots(requires)

	linkSpec := &link.Spec{
		Name:        typeName,
		IsComponent: component != nil,
		Bindings:    bindingMap,
		Host:        hostSpec,
		Queries:     desc.Queries,
		Hooks:       hooks,
		Slots:       slots,
	}
	if component != nil {
		linkSpec.Transclude = component.Transclude
		linkSpec.Template = component.Template
		linkSpec.TemplateURL = component.TemplateURL
	}
	if desc.HasCustomLink() {
		override, err := linkOverride(typeName, desc.CustomLink)
		if err != nil {
			return "", nil, err
		}
		linkSpec.CustomLink = override
	}

	linkFns, err := link.Build(linkSpec)
	if err != nil {
		return "", nil, err
	}

	directive := &runtime.Directive{
		Controller: controller,
		Require:    requireNames,
		Bindings:   bindingMap,
		Link:       linkFns,
	}
	if component != nil {
		directive.Template = component.Template
		directive.TemplateURL = component.TemplateURL
		directive.Transclude = component.Transclude
	}
	mergeLegacy(directive, desc.Legacy)

	slog.Debug("compiled directive descriptor",
		"type", typeName,
		"name", name,
		"component", component != nil,
		"queries", len(desc.Queries),
		"requires", len(requires))

	return name, func() *runtime.Directive { return directive }, nil
}

// directiveName derives the registration name from the selector: the element
// name for element selectors, the first attribute name for attribute
// selectors, converted from dash-case to camelCase.
func directiveName(typeName, selector string) (string, error) {
	parsed, err := css.Parse(selector)
	if err != nil || len(parsed) == 0 {
		return "", core.NewConfigError(typeName, "unparseable selector", "%q", selector)
	}

	first := parsed[0]
	if first.Element != "" && first.Element != "*" {
		return util.DashCaseToCamelCase(first.Element), nil
	}
	if len(first.Attrs) > 0 {
		return util.DashCaseToCamelCase(first.Attrs[0]), nil
	}
	return "", core.NewConfigError(typeName, "selector has no registration name",
		"%q names neither an element nor an attribute", selector)
}

// requireSlots converts the ordered require set into validated (name,
// slot-index) pairs plus the raw require expressions for the host, keeping
// the tuple order the host runtime delivers: slot 0 is the own controller.
func requireSlots(requires []core.RequiredController) ([]core.RequireSlot, []string) {
	slots := make([]core.RequireSlot, 0, len(requires))
	names := make([]string, 0, len(requires))
	for i, required := range requires {
		property := required.Alias
		if property == "" {
			property = strings.TrimLeft(required.Name, "^?")
		}
		slots = append(slots, core.RequireSlot{Name: property, Index: i + 1})
		names = append(names, required.Name)
	}
	return slots, names
}

// linkOverride converts the descriptor's custom link value. Anything but a
// runtime.LinkFns or runtime.LinkFn is a configuration error.
func linkOverride(typeName string, value any) (*runtime.LinkFns, error) {
	switch fn := value.(type) {
	case runtime.LinkFns:
		return &fn, nil
	case *runtime.LinkFns:
		return fn, nil
	case runtime.LinkFn:
		return &runtime.LinkFns{Post: fn}, nil
	case func(runtime.ReactiveContext, runtime.ElementHandle, runtime.AttributeHandle, []runtime.Controller, runtime.TranscludeFn):
		return &runtime.LinkFns{Post: fn}, nil
	default:
		return nil, core.NewConfigError(typeName, "invalid custom link",
			"expected runtime.LinkFns or runtime.LinkFn, got %T", value)
	}
}

// mergeLegacy applies the raw override mapping last: known keys override the
// generated fields unconditionally and without validation, unknown keys are
// carried through in Extras.
func mergeLegacy(directive *runtime.Directive, legacy map[string]any) {
	for key, value := range legacy {
		switch key {
		case "controller":
			directive.Controller = value
		case "require":
			if names, ok := value.([]string); ok {
				directive.Require = names
			}
		case "bindings", "scope":
			if m, ok := value.(map[string]string); ok {
				directive.Bindings = m
			}
		case "template":
			if s, ok := value.(string); ok {
				directive.Template = s
			}
		case "templateUrl":
			if s, ok := value.(string); ok {
				directive.TemplateURL = s
			}
		case "transclude":
			if b, ok := value.(bool); ok {
				directive.Transclude = b
			}
		case "link":
			switch fn := value.(type) {
			case runtime.LinkFns:
				directive.Link = fn
			case runtime.LinkFn:
				directive.Link = runtime.LinkFns{Post: fn}
			}
		default:
			if directive.Extras == nil {
				directive.Extras = map[string]any{}
			}
			directive.Extras[key] = value
		}
	}
}
