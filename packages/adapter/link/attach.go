package link

import (
	"ngadapter-go/packages/adapter/core"
	"ngadapter-go/packages/adapter/query"
	"ngadapter-go/packages/adapter/runtime"
)

// preLink runs only when the descriptor declares an init hook: required
// controllers are assigned and the hook invoked before any DOM manipulation.
func preLink(spec *Spec) runtime.LinkFn {
	return func(rc runtime.ReactiveContext, el runtime.ElementHandle, attrs runtime.AttributeHandle, ctrls []runtime.Controller, transclude runtime.TranscludeFn) {
		ctrl := ctrls[0]
		assignRequired(ctrl, ctrls, spec.Slots)
		if h, ok := ctrl.(runtime.OnInit); ok {
			h.OnInit()
		}
	}
}

// postLink wires the controller instance into the node: required controllers
// (unless pre-attach already did), property bindings for plain directives,
// static host attributes, host watches and listeners, ancestor
// children-change notification, query scheduling or synchronous hook
// invocation, and teardown registration.
func postLink(spec *Spec) runtime.LinkFn {
	return func(rc runtime.ReactiveContext, el runtime.ElementHandle, attrs runtime.AttributeHandle, ctrls []runtime.Controller, transclude runtime.TranscludeFn) {
		ctrl := ctrls[0]
		var releases []func()

		if !spec.Hooks.OnInit {
			assignRequired(ctrl, ctrls, spec.Slots)
		}

		// Components get their input/output/attribute bindings from the
		// host runtime; plain directives activate them here.
		if !spec.IsComponent {
			releases = append(releases, activateBindings(spec, rc, attrs, ctrl)...)
		}

		if spec.Host != nil {
			applyStaticAttributes(el, spec.Host.Static)
			releases = append(releases, watchHostBindings(rc, el, ctrl, spec.Host)...)
			releases = append(releases, installHostListeners(rc, el, ctrl, spec.Host.Listeners)...)
		}

		notifyAncestors(ctrls[1:])

		if len(spec.Queries) > 0 {
			scheduleQueries(spec, rc, el, ctrl)
		} else {
			invokeHooksNow(spec, ctrl)
		}

		el.OnDetach(func() {
			if spec.Hooks.OnDestroy {
				if h, ok := ctrl.(runtime.OnDestroy); ok {
					h.OnDestroy()
				}
			}
			for _, release := range releases {
				release()
			}
		})
	}
}

func assignRequired(ctrl runtime.Controller, ctrls []runtime.Controller, slots []core.RequireSlot) {
	for _, slot := range slots {
		if slot.Index < len(ctrls) {
			ctrl.SetProperty(slot.Name, ctrls[slot.Index])
		} else {
			ctrl.SetProperty(slot.Name, nil)
		}
	}
}

// notifyAncestors raises "a child changed" on every required controller that
// exposed a children-change scheduler, so ancestors re-resolve their queries
// once this instance finished attaching.
func notifyAncestors(required []runtime.Controller) {
	for _, ancestor := range required {
		if ancestor == nil {
			continue
		}
		if s, ok := ancestor.Property(runtime.SchedulerProperty).(*query.Scheduler); ok {
			s.Notify(core.FromContent)
			s.Notify(core.FromView)
		}
	}
}

// scheduleQueries registers the deferred batches and arms the first
// resolution pass. The initial batch of a kind completes with both the init
// and checked hooks; later batches only with the checked hook.
func scheduleQueries(spec *Spec, rc runtime.ReactiveContext, el runtime.ElementHandle, ctrl runtime.Controller) {
	scheduler := query.NewScheduler(rc)
	viewResolvers, contentResolvers := query.BuildResolvers(spec.Queries, ctrl, el)

	scheduler.Register(core.FromContent, contentResolvers,
		contentCallbacks(spec.Hooks, ctrl, true),
		contentCallbacks(spec.Hooks, ctrl, false))
	if spec.IsComponent {
		scheduler.Register(core.FromView, viewResolvers,
			viewCallbacks(spec.Hooks, ctrl, true),
			viewCallbacks(spec.Hooks, ctrl, false))
	}

	ctrl.SetProperty(runtime.SchedulerProperty, scheduler)

	scheduler.Notify(core.FromContent)
	if spec.IsComponent {
		scheduler.Notify(core.FromView)
	}
}

// invokeHooksNow covers the no-query case: with nothing to resolve, the
// init/checked hooks run synchronously and immediately, content before view.
func invokeHooksNow(spec *Spec, ctrl runtime.Controller) {
	for _, callback := range contentCallbacks(spec.Hooks, ctrl, true) {
		callback()
	}
	if spec.IsComponent {
		for _, callback := range viewCallbacks(spec.Hooks, ctrl, true) {
			callback()
		}
	}
}

func contentCallbacks(hooks core.HookFlags, ctrl runtime.Controller, initial bool) []func() {
	var callbacks []func()
	if initial && hooks.AfterContentInit {
		if h, ok := ctrl.(runtime.AfterContentInit); ok {
			callbacks = append(callbacks, h.AfterContentInit)
		}
	}
	if hooks.AfterContentChecked {
		if h, ok := ctrl.(runtime.AfterContentChecked); ok {
			callbacks = append(callbacks, h.AfterContentChecked)
		}
	}
	return callbacks
}

func viewCallbacks(hooks core.HookFlags, ctrl runtime.Controller, initial bool) []func() {
	var callbacks []func()
	if initial && hooks.AfterViewInit {
		if h, ok := ctrl.(runtime.AfterViewInit); ok {
			callbacks = append(callbacks, h.AfterViewInit)
		}
	}
	if hooks.AfterViewChecked {
		if h, ok := ctrl.(runtime.AfterViewChecked); ok {
			callbacks = append(callbacks, h.AfterViewChecked)
		}
	}
	return callbacks
}
