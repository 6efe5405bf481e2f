package desktop

import (
	"context"
	"fmt"

	wmenu "github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	wruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/hc3-tools/quickapp-manager/internal/menu"
	"github.com/hc3-tools/quickapp-manager/internal/version"
)

// RenderMenu converts tree into a Wails menu. Item clicks call onAction with the item id.
// Roles Wails cannot perform (services, hide-others) are left out.
func (h *Host) RenderMenu(tree *menu.Tree, onAction func(id string)) (*wmenu.Menu, error) {
	if err := menu.Validate(tree); err != nil {
		return nil, err
	}

	root := wmenu.NewMenu()
	for _, sub := range tree.Submenus {
		wsub := root.AddSubmenu(sub.Title)
		lastSeparator := true

		for _, e := range sub.Entries {
			switch e.Kind {
			case menu.EntrySeparator:
				if !lastSeparator {
					wsub.AddSeparator()
					lastSeparator = true
				}
			case menu.EntryItem:
				accel, err := parseAccelerator(e.Item.Accelerator)
				if err != nil {
					return nil, fmt.Errorf("%w: item %q: %w", menu.ErrMenuConstruction, e.Item.ID, err)
				}
				id := e.Item.ID
				wsub.AddText(e.Item.Label, accel, func(*wmenu.CallbackData) { onAction(id) })
				lastSeparator = false
			case menu.EntryPredefined:
				if h.addRole(wsub, e.Role) {
					lastSeparator = false
				}
			}
		}
	}

	return root, nil
}

func parseAccelerator(accel string) (*keys.Accelerator, error) {
	if accel == "" {
		return nil, nil
	}
	return keys.Parse(accel)
}

func (h *Host) addRole(sub *wmenu.Menu, role menu.Role) bool {
	switch role {
	case menu.RoleAbout:
		sub.AddText("About "+version.ProductName, nil, func(*wmenu.CallbackData) { h.showAbout() })
	case menu.RoleHide:
		sub.AddText("Hide "+version.ProductName, keys.CmdOrCtrl("h"), func(*wmenu.CallbackData) { h.withContext(h.rt.Hide) })
	case menu.RoleShowAll:
		sub.AddText("Show All", nil, func(*wmenu.CallbackData) { h.withContext(h.rt.Show) })
	case menu.RoleQuit:
		sub.AddText("Quit "+version.ProductName, keys.CmdOrCtrl("q"), func(*wmenu.CallbackData) { h.withContext(h.rt.Quit) })
	default:
		h.logger.Debug("menu role not supported by host", "role", string(role))
		return false
	}
	return true
}

func (h *Host) showAbout() {
	ctx, ok := h.hostContext()
	if !ok {
		return
	}
	_, err := h.rt.MessageDialog(ctx, wruntime.MessageDialogOptions{
		Type:    wruntime.InfoDialog,
		Title:   "About " + version.ProductName,
		Message: version.String(),
	})
	if err != nil {
		h.logger.Warn("about dialog failed", "error", err)
	}
}

func (h *Host) withContext(fn func(ctx context.Context)) {
	if ctx, ok := h.hostContext(); ok {
		fn(ctx)
	}
}
