// Package query turns child-element query declarations into deferred DOM
// lookup callbacks and owns the semaphore-gated scheduler that batches their
// re-resolution.
package query

import (
	"ngadapter-go/packages/adapter/core"
	"ngadapter-go/packages/adapter/runtime"
)

// Resolver performs one scoped DOM lookup and assigns the result to its
// query's target property. Resolvers are captured once per controller
// instance at post-attach time and re-invoked, not re-created, on every
// scheduled batch. They tolerate zero matches and detached subtrees by
// assigning nil/empty results.
type Resolver func()

// BuildResolvers converts the declared queries into resolver callbacks,
// partitioned by subtree and preserving declaration order within each
// partition.
func BuildResolvers(specs []core.QuerySpec, ctrl runtime.Controller, el runtime.ElementHandle) (view, content []Resolver) {
	for _, spec := range specs {
		resolver := newResolver(spec, ctrl, el)
		if spec.Kind.IsView() {
			view = append(view, resolver)
		} else {
			content = append(content, resolver)
		}
	}
	return view, content
}

func newResolver(spec core.QuerySpec, ctrl runtime.Controller, el runtime.ElementHandle) Resolver {
	scope := spec.Scope()
	if spec.Kind.IsFirst() {
		return func() {
			matches := el.QueryAll(spec.Selector, scope)
			if len(matches) == 0 {
				ctrl.SetProperty(spec.TargetProperty, nil)
				return
			}
			ctrl.SetProperty(spec.TargetProperty, matches[0])
		}
	}
	return func() {
		ctrl.SetProperty(spec.TargetProperty, el.QueryAll(spec.Selector, scope))
	}
}
