package review

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Approve  key.Binding
	Reject   key.Binding
	Up       key.Binding
	Down     key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Open     key.Binding
	Edit     key.Binding
}

func newKeyMap(editable, external bool) keyMap {
	k := keyMap{
		Approve: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter/y", "approve"),
		),
		Reject: key.NewBinding(
			key.WithKeys("esc", "n", "q", "ctrl+c"),
			key.WithHelp("esc/n", "reject"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "½ up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "½ down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open externally"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
	}
	k.Edit.SetEnabled(editable)
	k.Open.SetEnabled(external)
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Approve, k.Reject, k.Down, k.Up, k.HalfDown, k.Top, k.Bottom, k.Open, k.Edit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Approve, k.Reject, k.Open, k.Edit},
		{k.Up, k.Down, k.HalfUp, k.HalfDown, k.Top, k.Bottom},
	}
}
