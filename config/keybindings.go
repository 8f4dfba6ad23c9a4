package config

import (
	"strings"
)

// KeyBindings holds the modifier and optional per-action overrides from
// the [keys] section.
type KeyBindings struct {
	Modifier string            `toml:"modifier"`
	Actions  map[string]string `toml:"actions,omitempty"`
}

// actionDef is the default key of an action and whether it takes the
// modifier.
type actionDef struct {
	modified bool
	key      string
}

// actionRegistry maps action names to their default keys. Users can
// override any of these under [keys.actions].
var actionRegistry = map[string]actionDef{
	"quit":           {true, "c"},
	"next_tab":       {true, "n"},
	"prev_tab":       {true, "p"},
	"new_tab":        {true, "t"},
	"close_tab":      {true, "w"},
	"context_add":    {true, "k"},
	"context_remove": {true, "x"},
	"yank":           {true, "y"},
	"help":           {false, "f1"},
}

const defaultModifier = "ctrl"

func DefaultKeyBindings() KeyBindings {
	return KeyBindings{Modifier: defaultModifier}
}

func (kb KeyBindings) modifier() string {
	if kb.Modifier == "" {
		return defaultModifier
	}
	return kb.Modifier
}

// Key returns the binding for action, as bubbletea spells it
// ("ctrl+n"). User overrides win over the registry. Unknown actions
// return "".
func (kb KeyBindings) Key(action string) string {
	if override, ok := kb.Actions[action]; ok && override != "" {
		return override
	}
	def, ok := actionRegistry[action]
	if !ok {
		return ""
	}
	if def.modified {
		return kb.modifier() + "+" + def.key
	}
	return def.key
}

// Action returns the action bound to key, or "".
func (kb KeyBindings) Action(key string) string {
	for action := range actionRegistry {
		if kb.Key(action) == key {
			return action
		}
	}
	return ""
}

// Display returns the binding of action for help and footers:
// "ctrl+n" -> "Ctrl+N".
func (kb KeyBindings) Display(action string) string {
	return capitalizeKeybinding(kb.Key(action))
}

func capitalizeKeybinding(key string) string {
	parts := strings.Split(key, "+")
	out := parts[:0]
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) == 1 {
			out = append(out, strings.ToUpper(part))
			continue
		}
		out = append(out, strings.ToUpper(part[:1])+part[1:])
	}
	return strings.Join(out, "+")
}

// Validate reports whether the bindings are usable, with a warning for
// risky choices.
func (kb KeyBindings) Validate() (bool, string) {
	mod := strings.ToLower(kb.modifier())
	if mod == "shift" {
		return false, "Shift alone conflicts with typing"
	}
	if kb.Key("quit") == "" {
		return false, "quit must be bound"
	}
	if strings.Contains(mod, "alt") {
		return true, "Warning: Alt bindings need a terminal that sends Meta"
	}
	return true, ""
}
