// Package runtime defines the contract between the directive engine and the
// host UI runtime: the reactive context, the element and attribute handles a
// link function receives, the controller instance surface, and the composed
// runtime directive record handed back to the host.
package runtime

import "ngadapter-go/packages/adapter/core"

// ReactiveContext is the host's per-instance reactive scope. All mutation of
// controller and DOM state happens on the host's reconciliation cycle; the
// only suspension points are the deferred-task methods below.
type ReactiveContext interface {
	// EvalAsync schedules fn as a deferred task for the current
	// reconciliation cycle. The children-change scheduler batches through
	// this boundary.
	EvalAsync(fn func())

	// ApplyAsync schedules fn so any state it mutates is folded into the
	// next reconciliation pass rather than applied mid-cycle. Host event
	// listeners dispatch through this boundary.
	ApplyAsync(fn func())

	// Watch observes the value produced by get and invokes listener with
	// (new, old) when it changes. The returned func removes the watch;
	// it is safe to call more than once.
	Watch(get func() any, listener func(newVal, oldVal any)) (remove func())

	// WatchExpression is Watch over a host-evaluated expression string.
	WatchExpression(expr string, listener func(newVal, oldVal any)) (remove func())

	// Eval evaluates an expression against the context, with optional
	// local bindings.
	Eval(expr string, locals map[string]any) any

	// Assign writes a value through an assignable expression.
	Assign(expr string, value any)
}

// Event is the host event object delivered to host listeners.
type Event interface {
	// Path resolves a dotted field path such as "target.value" against
	// the event. Missing fields yield nil.
	Path(path string) any

	// PreventDefault suppresses the event's default action.
	PreventDefault()
}

// ElementHandle is the engine's view of one DOM-backed node. Handles must
// tolerate a detached subtree: QueryAll yields no results instead of
// failing.
type ElementHandle interface {
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	AddClass(name string)
	RemoveClass(name string)
	SetProperty(name string, value any)

	// AddEventListener installs a handler and returns its removal func.
	AddEventListener(event string, handler func(Event)) (remove func())

	// OnDetach registers fn to run when the node detaches from the tree.
	OnDetach(fn func())

	// QueryAll returns the descendant elements matching selector inside
	// the requested subtree, in document order.
	QueryAll(selector string, scope core.QueryScope) []ElementHandle
}

// AttributeHandle exposes the normalized attributes of the element a
// controller is attached to.
type AttributeHandle interface {
	Get(name string) (value string, ok bool)

	// Observe invokes fn with the interpolated attribute value now and on
	// every change. The returned func stops the observation.
	Observe(name string, fn func(value string)) (remove func())
}

// Controller is the live instance created per matched DOM node. The host
// bridges instances into this surface: a property bag for required
// controllers, bound properties and query targets, plus method invocation
// for host listener dispatch.
type Controller interface {
	Property(name string) any
	SetProperty(name string, value any)
	Invoke(method string, args ...any) any
}

// SchedulerProperty is the reserved controller property under which the link
// machinery exposes the instance's children-change scheduler, so nested
// controllers attaching later can notify it.
const SchedulerProperty = "$$childrenChangeScheduler"

// TranscludeFn attaches a clone of the projected content. Present only when
// the directive enables content projection.
type TranscludeFn func(attach func(clone ElementHandle))

// LinkFn is one phase of the linking protocol. ctrls[0] is the own
// controller; ctrls[1:] are the required controllers in slot order.
type LinkFn func(rc ReactiveContext, el ElementHandle, attrs AttributeHandle, ctrls []Controller, transclude TranscludeFn)

// LinkFns is the pre-attach / post-attach pair returned to the host. Pre is
// nil when the descriptor declares no init hook.
type LinkFns struct {
	Pre  LinkFn
	Post LinkFn
}

// Directive is the composed runtime record the factory returns to the host:
// controller token, require list, binding map, template reference xor
// template-loader reference and the link implementation. Extras carries
// legacy override keys the engine does not model.
type Directive struct {
	Controller  any
	Require     []string
	Bindings    map[string]string
	Template    string
	TemplateURL string
	Transclude  bool
	Link        LinkFns
	Extras      map[string]any
}
