// api/schemas/actions.go
package schemas

import (
	"fmt"
	"time"
)

// Strategy selects how a locator query is evaluated against a surface.
type Strategy string

const (
	// ByQuery evaluates the query as a CSS selector.
	ByQuery Strategy = "query"
	// BySearch evaluates the query through DOM search (plain text or XPath),
	// used for labeled menu items whose only stable handle is their caption.
	BySearch Strategy = "search"
)

// Locator describes one element on a surface.
type Locator struct {
	Query    string   `json:"query"`
	Strategy Strategy `json:"strategy,omitempty"`
}

// Css is shorthand for a CSS locator.
func Css(query string) Locator { return Locator{Query: query, Strategy: ByQuery} }

// Search is shorthand for a text/XPath search locator.
func Search(query string) Locator { return Locator{Query: query, Strategy: BySearch} }

func (l Locator) IsZero() bool { return l.Query == "" }

func (l Locator) String() string {
	if l.Strategy == BySearch {
		return fmt.Sprintf("search(%s)", l.Query)
	}
	return l.Query
}

// KeyChord is a named composite keyboard shortcut. Modifiers are pressed in
// declaration order before the terminal key and released in reverse order
// after it.
type KeyChord struct {
	Name      string   `json:"name"`
	Modifiers []string `json:"modifiers,omitempty"` // "Control", "Shift", "Alt", "Meta"
	Key       string   `json:"key"`                 // terminal key, e.g. "b", "End"
}

func (c KeyChord) IsZero() bool { return c.Key == "" }

func (c KeyChord) String() string {
	if c.Name != "" {
		return c.Name
	}
	out := ""
	for _, m := range c.Modifiers {
		out += m + "+"
	}
	return out + c.Key
}

// ActionKind is the interaction performed once the primary locator resolves.
type ActionKind string

const (
	ActionClick ActionKind = "click"
	// ActionType clicks the element first, then types Text into it.
	ActionType ActionKind = "type"
)

// ActionStep is one locator-or-fallback interaction attempt. Exactly one of
// the primary interaction or the fallback chord executes per step; the
// fallback runs only when the primary locator is absent within Timeout.
type ActionStep struct {
	Name        string
	Primary     Locator
	Kind        ActionKind
	Text        string
	Fallback    *KeyChord
	Timeout     time.Duration
	SettleAfter time.Duration
}

// StepPath records which branch of a step actually executed.
type StepPath string

const (
	PathPrimary  StepPath = "primary"
	PathFallback StepPath = "fallback"
)
