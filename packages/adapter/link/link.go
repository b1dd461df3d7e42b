// Package link assembles the two-phase link implementation for a compiled
// descriptor: compile-time validation, pre-attach / post-attach functions and
// teardown, sequencing required-controller wiring, binding activation, host
// wiring, query resolution and lifecycle-hook invocation.
package link

import (
	"ngadapter-go/packages/adapter/bindings"
	"ngadapter-go/packages/adapter/core"
	"ngadapter-go/packages/adapter/host"
	"ngadapter-go/packages/adapter/runtime"
)

// Spec is everything the link builder needs about one compiled descriptor.
// It is built once per descriptor; all per-node state lives in the closures
// the builder returns.
type Spec struct {
	// Name identifies the descriptor in configuration errors.
	Name string

	IsComponent bool
	Transclude  bool
	Template    string
	TemplateURL string

	Bindings bindings.Map
	Host     *host.Spec
	Queries  []core.QuerySpec
	Hooks    core.HookFlags
	Slots    []core.RequireSlot

	// CustomLink, when set, is returned verbatim and disables every
	// generated behavior below.
	CustomLink *runtime.LinkFns
}

// Build validates the spec and assembles the link functions. All validation
// failures are fatal configuration errors raised here, before any factory is
// produced or DOM wiring occurs.
func Build(spec *Spec) (runtime.LinkFns, error) {
	if err := validate(spec); err != nil {
		return runtime.LinkFns{}, err
	}
	if spec.CustomLink != nil {
		return *spec.CustomLink, nil
	}

	fns := runtime.LinkFns{Post: postLink(spec)}
	if spec.Hooks.OnInit {
		fns.Pre = preLink(spec)
	}
	return fns, nil
}

func validate(spec *Spec) error {
	if spec.IsComponent && spec.Template != "" && spec.TemplateURL != "" {
		return core.NewConfigError(spec.Name, "conflicting template sources",
			"declare template or templateUrl, not both")
	}

	if (spec.Hooks.AfterContentChecked || spec.Hooks.AfterViewChecked) && len(spec.Queries) == 0 {
		return core.NewConfigError(spec.Name, "checked hook without queries",
			"after-content-checked/after-view-checked need at least one declared query")
	}

	if spec.IsComponent && !spec.Transclude && spec.Hooks.HasContentHooks() {
		return core.NewConfigError(spec.Name, "content hook without content projection",
			"after-content-init/after-content-checked need transclusion enabled")
	}

	if !spec.IsComponent {
		if spec.Hooks.HasViewHooks() {
			return core.NewConfigError(spec.Name, "view hook on a directive",
				"directives have no owned view, only a content subtree")
		}
		for _, q := range spec.Queries {
			if q.Kind.IsView() {
				return core.NewConfigError(spec.Name, "view query on a directive",
					"property %q queries a view the directive does not own", q.TargetProperty)
			}
		}
	}

	return validateSlots(spec)
}

// validateSlots checks the (name, slot-index) pairs against the controller
// tuple layout: slot 0 is the own controller, required references occupy
// 1..len(slots), each exactly once.
func validateSlots(spec *Spec) error {
	names := map[string]bool{}
	indices := map[int]bool{}
	for _, slot := range spec.Slots {
		if slot.Index < 1 || slot.Index > len(spec.Slots) {
			return core.NewConfigError(spec.Name, "require slot out of range",
				"%q maps to slot %d of %d", slot.Name, slot.Index, len(spec.Slots))
		}
		if names[slot.Name] {
			return core.NewConfigError(spec.Name, "duplicate require name", "%q", slot.Name)
		}
		if indices[slot.Index] {
			return core.NewConfigError(spec.Name, "duplicate require slot", "slot %d", slot.Index)
		}
		names[slot.Name] = true
		indices[slot.Index] = true
	}
	return nil
}
