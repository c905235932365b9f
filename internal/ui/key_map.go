package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the review flow. Each view only honors the subset
// returned by [keyMap.forView]; list navigation and filtering stay with [list.Model].
type keyMap struct {
	write      key.Binding
	confirm    key.Binding
	cancel     key.Binding
	rediscover key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		write:      key.NewBinding(key.WithKeys("enter", "w"), key.WithHelp("enter/w", "write playlist")),
		confirm:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "replace")),
		cancel:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "back to releases")),
		rediscover: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "discover again")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// forView lists the bindings shown in the help line of v.
func (k keyMap) forView(v ViewState) []key.Binding {
	switch v {
	case ReleaseListView:
		return []key.Binding{k.write, k.quit}
	case ConfirmView:
		return []key.Binding{k.confirm, k.cancel}
	case ResultView:
		return []key.Binding{k.rediscover, k.quit}
	default:
		return []key.Binding{k.quit}
	}
}
