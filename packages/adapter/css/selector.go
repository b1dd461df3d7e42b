// Package css parses the CSS selectors used by directive descriptors and
// child-element queries, and matches them against individual elements.
package css

import (
	"fmt"
	"regexp"
	"strings"
)

// selectorRegexp group indices.
const (
	groupNot             = 1 // ":not("
	groupTag             = 2 // tag with prefix
	groupPrefix          = 3 // "." or "#"
	groupAttribute       = 4 // attribute name
	groupAttributeValue  = 5 // double quoted value
	groupAttributeSingle = 6 // single quoted value
	groupAttributeBare   = 7 // unquoted value
	groupNotEnd          = 8 // ")"
	groupSeparator       = 9 // ","
)

// Go regexps have no backreferences, so quote pairing is not validated.
var selectorRegexp = regexp.MustCompile(
	`(\:not\()|` +
		`(([\.\#]?)[-\w]+)|` +
		`(?:\[([-.\w*\\$]+)(?:=(?:"([^"]*)"|'([^']*)'|([^\]\s]+)))?\])|` +
		`(\))|` +
		`(\s*,\s*)`,
)

// Selector is one parsed CSS selector: an optional element name, class
// names, attribute name/value pairs and negated sub-selectors.
type Selector struct {
	Element      string
	ClassNames   []string
	Attrs        []string // pairs: name, value, name, value, ...
	NotSelectors []*Selector
}

func (s *Selector) isEmpty() bool {
	return s.Element == "" && len(s.ClassNames) == 0 && len(s.Attrs) == 0
}

func (s *Selector) addAttribute(name, value string) {
	s.Attrs = append(s.Attrs, name, value)
}

// Parse parses a comma-separated selector string. Nesting :not is not
// allowed.
func Parse(selector string) ([]*Selector, error) {
	var results []*Selector

	addResult := func(res []*Selector, sel *Selector) []*Selector {
		if len(sel.NotSelectors) > 0 && sel.isEmpty() {
			sel.Element = "*"
		}
		return append(res, sel)
	}

	current := &Selector{}
	top := current
	inNot := false

	for _, match := range selectorRegexp.FindAllStringSubmatch(selector, -1) {
		switch {
		case match[groupNot] != "":
			if inNot {
				return nil, fmt.Errorf("nesting :not in a selector is not allowed")
			}
			inNot = true
			current = &Selector{}
			top.NotSelectors = append(top.NotSelectors, current)
		case match[groupTag] != "":
			prefix := match[groupPrefix]
			name := match[groupTag][len(prefix):]
			switch prefix {
			case ".":
				current.ClassNames = append(current.ClassNames, name)
			case "#":
				current.addAttribute("id", name)
			default:
				current.Element = name
			}
		case match[groupAttribute] != "":
			value := match[groupAttributeValue]
			if value == "" {
				value = match[groupAttributeSingle]
			}
			if value == "" {
				value = match[groupAttributeBare]
			}
			current.addAttribute(match[groupAttribute], value)
		case match[groupNotEnd] != "":
			inNot = false
			current = top
		case match[groupSeparator] != "":
			if inNot {
				return nil, fmt.Errorf("multiple selectors in :not are not supported")
			}
			results = addResult(results, top)
			top = &Selector{}
			current = top
		}
	}

	return addResult(results, top), nil
}

// MatchTarget is one element as seen by the matcher.
type MatchTarget interface {
	TagName() string
	HasClass(name string) bool
	Attribute(name string) (value string, ok bool)
}

// Matches reports whether the target element satisfies the selector.
func (s *Selector) Matches(t MatchTarget) bool {
	if s.Element != "" && s.Element != "*" &&
		!strings.EqualFold(s.Element, t.TagName()) {
		return false
	}
	for _, class := range s.ClassNames {
		if !t.HasClass(class) {
			return false
		}
	}
	for i := 0; i+1 < len(s.Attrs); i += 2 {
		name, want := s.Attrs[i], s.Attrs[i+1]
		got, ok := t.Attribute(name)
		if !ok {
			return false
		}
		if want != "" && got != want {
			return false
		}
	}
	for _, not := range s.NotSelectors {
		if not.Matches(t) {
			return false
		}
	}
	return true
}

// MatchesAny reports whether any selector in the list matches the target.
func MatchesAny(selectors []*Selector, t MatchTarget) bool {
	for _, s := range selectors {
		if s.Matches(t) {
			return true
		}
	}
	return false
}
