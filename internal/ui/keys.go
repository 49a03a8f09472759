package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"bada/internal/config"
)

func binding(k, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(k), key.WithHelp(displayKey(k), desc))
}

// helpBindings groups the configured keys into help columns.
func helpBindings(k config.Keymap) [][]key.Binding {
	return [][]key.Binding{
		{
			key.NewBinding(key.WithKeys(k.Up, k.Down), key.WithHelp(k.Up+"/"+k.Down, "move")),
			binding(k.Add, "add"),
			binding(k.Edit, "edit"),
			binding(k.Toggle, "toggle done"),
			binding(k.Delete, "delete"),
			binding(k.Quit, "quit"),
		},
		{
			binding(k.Search, "search"),
			binding(k.DateFilter, "date filter"),
			binding(k.CustomRange, "custom range"),
			binding(k.StatusFilter, "status filter"),
			binding(k.PriorityFilter, "priority filter"),
			binding(k.Sort, "sort"),
			binding(k.Reset, "reset"),
		},
		{
			binding(k.Pin, "pin"),
			binding(k.Expand, "expand"),
			binding(k.Select, "select"),
			binding(k.DeleteSelected, "delete selected"),
			binding(k.MoveMode, "move mode"),
			binding(k.Detail, "actions"),
			binding(k.Cancel, "close / clear date"),
		},
	}
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}
