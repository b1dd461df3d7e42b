package core

// BindingMode describes how a controller property is bound to the outside
// world.
type BindingMode int

const (
	// BindingTwoWay keeps a parent expression and a controller property in
	// sync in both directions.
	BindingTwoWay BindingMode = iota
	// BindingAttributeText mirrors the interpolated text value of an
	// attribute into a controller property.
	BindingAttributeText
	// BindingEventCallback exposes a parent expression as an invokable
	// callback property on the controller.
	BindingEventCallback
)

// Tag returns the single-character prefix used in the tagged binding table.
func (m BindingMode) Tag() string {
	switch m {
	case BindingTwoWay:
		return "="
	case BindingAttributeText:
		return "@"
	case BindingEventCallback:
		return "&"
	}
	return ""
}

// QueryKind identifies which descendants a query collects and from which
// subtree.
type QueryKind int

const (
	QueryViewChild QueryKind = iota
	QueryViewChildren
	QueryContentChild
	QueryContentChildren
)

// IsView reports whether the query resolves in the component's own rendered
// subtree rather than in projected content.
func (k QueryKind) IsView() bool {
	return k == QueryViewChild || k == QueryViewChildren
}

// IsFirst reports whether the query picks the first match instead of
// collecting all matches.
func (k QueryKind) IsFirst() bool {
	return k == QueryViewChild || k == QueryContentChild
}

// QueryScope selects the subtree a DOM lookup runs against.
type QueryScope int

const (
	// ScopeView is the element's own rendered subtree, excluding any
	// projected-content region.
	ScopeView QueryScope = iota
	// ScopeContent is the subtree contributed through content projection.
	ScopeContent
)

// ChangeKind tags a children-change notification with the subtree it
// originated from.
type ChangeKind int

const (
	FromView ChangeKind = iota
	FromContent
)

func (k ChangeKind) String() string {
	switch k {
	case FromView:
		return "FromView"
	case FromContent:
		return "FromContent"
	}
	return "Unknown"
}

// QuerySpec declares a request for one or more descendant element handles
// matching Selector, assigned to TargetProperty on the controller instance.
// The slice order on a descriptor is the order resolvers run in a batch.
type QuerySpec struct {
	Kind           QueryKind
	Selector       string
	TargetProperty string
}

// Scope returns the subtree the query resolves against.
func (q QuerySpec) Scope() QueryScope {
	if q.Kind.IsView() {
		return ScopeView
	}
	return ScopeContent
}

// HookFlags records which lifecycle hooks a controller type declares. The
// flag set is precomputed by the reflection collaborator and drives both
// compile-time validation and runtime hook dispatch.
type HookFlags struct {
	OnInit              bool
	OnDestroy           bool
	AfterViewInit       bool
	AfterViewChecked    bool
	AfterContentInit    bool
	AfterContentChecked bool
}

// HasViewHooks reports whether any view-level hook is declared.
func (h HookFlags) HasViewHooks() bool {
	return h.AfterViewInit || h.AfterViewChecked
}

// HasContentHooks reports whether any content-level hook is declared.
func (h HookFlags) HasContentHooks() bool {
	return h.AfterContentInit || h.AfterContentChecked
}

// RequiredController names one controller the directive requires from the
// host runtime. Name is the raw require expression (it may carry the
// optional/parent sigils understood by the host); Alias, when non empty, is
// the controller property the reference is assigned to.
type RequiredController struct {
	Name  string
	Alias string
}

// RequireSlot pairs a controller property name with the index the reference
// occupies in the controller tuple handed to the link functions. Slot 0 is
// always the own controller, so valid indices start at 1. Slots are
// validated at compile time against the declared require set.
type RequireSlot struct {
	Name  string
	Index int
}

// Directive is the resolved descriptor for a template-less directive. It is
// input contract only: the engine never mutates it.
type Directive struct {
	Selector string

	// Inputs, Attrs and Outputs use the "propertyName[:externalAlias]"
	// declaration syntax.
	Inputs  []string
	Attrs   []string
	Outputs []string

	// Host maps raw host keys ("[expr]", "(event)" or bare attribute
	// names) to expression strings.
	Host map[string]string

	Queries []QuerySpec

	// Legacy is a raw override mapping merged on top of everything the
	// compiler generates. Keys present here win unconditionally and are
	// not validated.
	Legacy map[string]any

	// CustomCompile, when set, transforms the descriptor before any spec
	// is built.
	CustomCompile func(*Directive) *Directive

	// CustomLink, when set, fully replaces the generated link
	// implementation. It must be a runtime.LinkFns or runtime.LinkFn
	// value; supplying it forfeits all generated hook sequencing, binding
	// and query machinery.
	CustomLink any
}

// HasCustomLink reports whether the descriptor opts out of the generated
// link implementation.
func (d *Directive) HasCustomLink() bool {
	return d.CustomLink != nil
}

// Component is the descriptor for a directive with an owned view. Template
// and TemplateURL are mutually exclusive; declaring both is a compile-time
// error.
type Component struct {
	Directive

	Template    string
	TemplateURL string

	// Transclude enables content projection into the component's view.
	Transclude bool
}
