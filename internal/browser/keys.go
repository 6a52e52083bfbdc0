// internal/browser/keys.go
package browser

import (
	"unicode"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

	"github.com/docpilot/docpilot/api/schemas"
)

// modifierKey describes a held modifier for chord dispatch.
type modifierKey struct {
	key  string
	code int64
	bit  input.Modifier
}

var modifierKeys = map[string]modifierKey{
	"Control": {"Control", 17, input.ModifierCtrl},
	"Shift":   {"Shift", 16, input.ModifierShift},
	"Alt":     {"Alt", 18, input.ModifierAlt},
	"Meta":    {"Meta", 91, input.ModifierCommand},
}

// namedKeyCodes maps non-printable terminal keys to Windows virtual key codes.
var namedKeyCodes = map[string]int64{
	"Enter":     13,
	"Tab":       9,
	"Escape":    27,
	"Backspace": 8,
	"Delete":    46,
	"End":       35,
	"Home":      36,
	"PageUp":    33,
	"PageDown":  34,
}

// chordActions expands a key chord into an ordered CDP event sequence:
// modifier key-downs in declaration order, the terminal key press, then
// modifier releases in reverse order.
func chordActions(chord schemas.KeyChord) ([]chromedp.Action, error) {
	if chord.IsZero() {
		return nil, schemas.NewError(schemas.CodeRemoteInteraction, "key chord has no terminal key")
	}

	termKey, termCode, err := terminalKey(chord.Key)
	if err != nil {
		return nil, err
	}

	var actions []chromedp.Action
	var mods input.Modifier
	held := make([]modifierKey, 0, len(chord.Modifiers))

	for _, name := range chord.Modifiers {
		mk, ok := modifierKeys[name]
		if !ok {
			return nil, schemas.NewError(schemas.CodeRemoteInteraction, "unknown modifier %q in chord %s", name, chord)
		}
		mods |= mk.bit
		actions = append(actions, input.DispatchKeyEvent(input.KeyRawDown).
			WithKey(mk.key).
			WithWindowsVirtualKeyCode(mk.code).
			WithModifiers(mods))
		held = append(held, mk)
	}

	actions = append(actions,
		input.DispatchKeyEvent(input.KeyRawDown).
			WithKey(termKey).
			WithWindowsVirtualKeyCode(termCode).
			WithModifiers(mods),
		input.DispatchKeyEvent(input.KeyUp).
			WithKey(termKey).
			WithWindowsVirtualKeyCode(termCode).
			WithModifiers(mods),
	)

	for i := len(held) - 1; i >= 0; i-- {
		mk := held[i]
		mods &^= mk.bit
		actions = append(actions, input.DispatchKeyEvent(input.KeyUp).
			WithKey(mk.key).
			WithWindowsVirtualKeyCode(mk.code).
			WithModifiers(mods))
	}

	return actions, nil
}

// terminalKey resolves the chord's final key to its CDP key name and code.
func terminalKey(key string) (string, int64, error) {
	if code, ok := namedKeyCodes[key]; ok {
		return key, code, nil
	}
	runes := []rune(key)
	if len(runes) == 1 {
		r := runes[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return string(r), int64(unicode.ToUpper(r)), nil
		}
	}
	return "", 0, schemas.NewError(schemas.CodeRemoteInteraction, "unsupported chord key %q", key)
}
