package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		id   string
		want Action
	}{
		{"check_for_updates", ActionCheckForUpdates},
		{"toggle_devtools", ActionToggleDevTools},
		{"", ActionUnknown},
		{"quit", ActionUnknown},
		{"Toggle_DevTools", ActionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAction(tt.id))
		})
	}
}

func TestAction_RoundTripsThroughID(t *testing.T) {
	for _, a := range []Action{ActionCheckForUpdates, ActionToggleDevTools} {
		assert.Equal(t, a, ParseAction(a.ID()))
		assert.Equal(t, a.ID(), a.String())
	}
	assert.Equal(t, "", ActionUnknown.ID())
	assert.Equal(t, "unknown", ActionUnknown.String())
}

func TestController_Build(t *testing.T) {
	tree, err := NewController("HC3 QuickApp Manager").Build()
	require.NoError(t, err)
	require.Len(t, tree.Submenus, 2)

	app := tree.Submenus[0]
	assert.Equal(t, "HC3 QuickApp Manager", app.Title)
	assert.Equal(t, []Entry{
		{Kind: EntryPredefined, Role: RoleAbout},
		{Kind: EntryItem, Item: CheckForUpdatesItem},
		{Kind: EntrySeparator},
		{Kind: EntryPredefined, Role: RoleServices},
		{Kind: EntrySeparator},
		{Kind: EntryPredefined, Role: RoleHide},
		{Kind: EntryPredefined, Role: RoleHideOthers},
		{Kind: EntryPredefined, Role: RoleShowAll},
		{Kind: EntrySeparator},
		{Kind: EntryPredefined, Role: RoleQuit},
	}, app.Entries)

	view := tree.Submenus[1]
	assert.Equal(t, "View", view.Title)
	assert.Equal(t, []Entry{{Kind: EntryItem, Item: ToggleDevToolsItem}}, view.Entries)
}

func TestController_BuildItems(t *testing.T) {
	tree, err := NewController("App").Build()
	require.NoError(t, err)

	items := tree.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "check_for_updates", items[0].ID)
	assert.Equal(t, "Check for Updates...", items[0].Label)
	assert.Empty(t, items[0].Accelerator)
	assert.Equal(t, "toggle_devtools", items[1].ID)
	assert.Equal(t, "CmdOrCtrl+Shift+I", items[1].Accelerator)
}

func TestController_BuildFailsWithoutTitle(t *testing.T) {
	_, err := NewController("").Build()
	assert.ErrorIs(t, err, ErrMenuConstruction)
}

func TestValidate(t *testing.T) {
	sub := func(items ...Item) *Tree {
		b := newSubmenu("App")
		for _, it := range items {
			b.item(it)
		}
		return &Tree{Submenus: []Submenu{b.build()}}
	}

	tests := []struct {
		name    string
		tree    *Tree
		wantErr bool
	}{
		{"nil tree", nil, true},
		{"no submenus", &Tree{}, true},
		{"valid", sub(CheckForUpdatesItem, ToggleDevToolsItem), false},
		{"duplicate id", sub(CheckForUpdatesItem, CheckForUpdatesItem), true},
		{"blank label", sub(Item{ID: IDToggleDevTools}), true},
		{"unbound id", sub(Item{ID: "reload", Label: "Reload"}), true},
		{"dangling plus", sub(Item{ID: IDToggleDevTools, Label: "Dev", Accelerator: "CmdOrCtrl+"}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tree)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMenuConstruction)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
