package runtime

// Lifecycle hooks are optional interfaces on the controller instance. The
// reflection collaborator reports their presence as core.HookFlags; the link
// machinery only dispatches hooks whose flag is set.

// OnInit runs once before any DOM manipulation, after required controllers
// are assigned.
type OnInit interface {
	OnInit()
}

// OnDestroy runs on node detachment, before bindings and listeners are
// released.
type OnDestroy interface {
	OnDestroy()
}

// AfterViewInit runs once after the first view-query resolution pass.
type AfterViewInit interface {
	AfterViewInit()
}

// AfterViewChecked runs after every view-query resolution pass.
type AfterViewChecked interface {
	AfterViewChecked()
}

// AfterContentInit runs once after the first content-query resolution pass.
type AfterContentInit interface {
	AfterContentInit()
}

// AfterContentChecked runs after every content-query resolution pass.
type AfterContentChecked interface {
	AfterContentChecked()
}
