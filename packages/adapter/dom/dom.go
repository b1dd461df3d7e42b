// Package dom adapts golang.org/x/net/html nodes to the runtime
// ElementHandle contract. It is the reference host used by the engine's own
// tests: a parsed fragment becomes a tree of elements with attribute, class,
// property, listener and detach semantics, and with an optional
// projected-content region rooted at an ng-transclude element.
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"ngadapter-go/packages/adapter/core"
	"ngadapter-go/packages/adapter/css"
	"ngadapter-go/packages/adapter/runtime"
)

// contentTag marks the projected-content region inside a parsed fragment.
const contentTag = "ng-transclude"

// Element wraps one html element node.
type Element struct {
	Node *html.Node

	parent   *Element
	children []*Element
	content  *Element

	props     map[string]any
	listeners map[string][]*listener
	detachFns []func()
	detached  bool
}

type listener struct {
	fn      func(runtime.Event)
	removed bool
}

// Parse builds an element tree from an HTML fragment. The fragment must have
// a single root element. An ng-transclude descendant becomes the
// projected-content region of its parent element.
func Parse(fragment string) (*Element, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, err
	}

	var root *Element
	for _, node := range nodes {
		if node.Type != html.ElementNode {
			continue
		}
		if root != nil {
			return nil, fmt.Errorf("dom: fragment has more than one root element")
		}
		root = wrap(node, nil)
	}
	if root == nil {
		return nil, fmt.Errorf("dom: fragment has no root element")
	}
	return root, nil
}

func wrap(node *html.Node, parent *Element) *Element {
	e := &Element{Node: node, parent: parent}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		wrapped := wrap(child, e)
		e.children = append(e.children, wrapped)
		if child.Data == contentTag && e.content == nil {
			e.content = wrapped
		}
	}
	return e
}

// Append attaches a child element built elsewhere, for tests that grow the
// tree after parsing.
func (e *Element) Append(child *Element) {
	child.parent = e
	e.children = append(e.children, child)
	if child.TagName() == contentTag && e.content == nil {
		e.content = child
	}
}

// Parent returns the parent element, nil at the root.
func (e *Element) Parent() *Element {
	return e.parent
}

// TagName returns the lower-case element name.
func (e *Element) TagName() string {
	return e.Node.Data
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	for _, attr := range e.Node.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttribute(name, value string) {
	for i, attr := range e.Node.Attr {
		if attr.Key == name {
			e.Node.Attr[i].Val = value
			return
		}
	}
	e.Node.Attr = append(e.Node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) RemoveAttribute(name string) {
	for i, attr := range e.Node.Attr {
		if attr.Key == name {
			e.Node.Attr = append(e.Node.Attr[:i], e.Node.Attr[i+1:]...)
			return
		}
	}
}

// HasClass reports whether the class attribute contains name.
func (e *Element) HasClass(name string) bool {
	value, _ := e.Attribute("class")
	for _, class := range strings.Fields(value) {
		if class == name {
			return true
		}
	}
	return false
}

func (e *Element) AddClass(name string) {
	if e.HasClass(name) {
		return
	}
	value, _ := e.Attribute("class")
	e.SetAttribute("class", strings.TrimSpace(value+" "+name))
}

func (e *Element) RemoveClass(name string) {
	value, _ := e.Attribute("class")
	var kept []string
	for _, class := range strings.Fields(value) {
		if class != name {
			kept = append(kept, class)
		}
	}
	e.SetAttribute("class", strings.Join(kept, " "))
}

func (e *Element) SetProperty(name string, value any) {
	if e.props == nil {
		e.props = map[string]any{}
	}
	e.props[name] = value
}

// PropertyValue reads back a DOM-node property set through SetProperty.
func (e *Element) PropertyValue(name string) any {
	return e.props[name]
}

func (e *Element) AddEventListener(event string, handler func(runtime.Event)) func() {
	if e.listeners == nil {
		e.listeners = map[string][]*listener{}
	}
	l := &listener{fn: handler}
	e.listeners[event] = append(e.listeners[event], l)
	return func() { l.removed = true }
}

// Dispatch delivers an event to the element's listeners. Suppression of the
// default action is observed through the event itself.
func (e *Element) Dispatch(event string, ev runtime.Event) {
	for _, l := range e.listeners[event] {
		if !l.removed {
			l.fn(ev)
		}
	}
}

// ListenerCount reports the active listeners for an event.
func (e *Element) ListenerCount(event string) int {
	n := 0
	for _, l := range e.listeners[event] {
		if !l.removed {
			n++
		}
	}
	return n
}

func (e *Element) OnDetach(fn func()) {
	e.detachFns = append(e.detachFns, fn)
}

// Detach tears the subtree down: detach callbacks run bottom-up, each
// element at most once, and later queries against the subtree yield nothing.
func (e *Element) Detach() {
	if e.detached {
		return
	}
	for _, child := range e.children {
		child.Detach()
	}
	e.detached = true
	for _, fn := range e.detachFns {
		fn()
	}
}

// QueryAll returns the descendants matching selector within the requested
// subtree, in document order. A detached element yields no results, and an
// unparseable selector behaves like a selector matching nothing.
func (e *Element) QueryAll(selector string, scope core.QueryScope) []runtime.ElementHandle {
	if e.detached {
		return nil
	}
	selectors, err := css.Parse(selector)
	if err != nil {
		return nil
	}

	var out []runtime.ElementHandle
	var visit func(el *Element)
	visit = func(el *Element) {
		for _, child := range el.children {
			if scope == core.ScopeView && child.TagName() == contentTag {
				continue
			}
			if css.MatchesAny(selectors, child) {
				out = append(out, child)
			}
			visit(child)
		}
	}

	switch scope {
	case core.ScopeContent:
		if content := e.contentRoot(); content != nil {
			visit(content)
		}
	default:
		visit(e)
	}
	return out
}

// contentRoot locates the projected-content region: the first ng-transclude
// element in the subtree.
func (e *Element) contentRoot() *Element {
	if e.content != nil {
		return e.content
	}
	for _, child := range e.children {
		if child.TagName() == contentTag {
			return child
		}
		if found := child.contentRoot(); found != nil {
			return found
		}
	}
	return nil
}
