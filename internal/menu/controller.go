package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hc3-tools/quickapp-manager/internal/logging"
)

// ErrMenuConstruction marks a menu that cannot be installed.
var ErrMenuConstruction = errors.New("menu construction failed")

// The two action items. They never change after construction.
var (
	CheckForUpdatesItem = Item{ID: IDCheckForUpdates, Label: "Check for Updates..."}
	ToggleDevToolsItem  = Item{ID: IDToggleDevTools, Label: "Toggle DevTools", Accelerator: "CmdOrCtrl+Shift+I"}
)

// Controller builds the application menu.
type Controller struct {
	appName string
}

// NewController creates a Controller whose first submenu is titled appName.
func NewController(appName string) *Controller {
	return &Controller{appName: appName}
}

// Build assembles the application and View submenus.
func (c *Controller) Build() (*Tree, error) {
	appMenu := newSubmenu(c.appName).
		role(RoleAbout).
		item(CheckForUpdatesItem).
		separator().
		role(RoleServices).
		separator().
		role(RoleHide).
		role(RoleHideOthers).
		role(RoleShowAll).
		separator().
		role(RoleQuit).
		build()

	viewMenu := newSubmenu("View").
		item(ToggleDevToolsItem).
		build()

	tree := &Tree{Submenus: []Submenu{appMenu, viewMenu}}
	if err := Validate(tree); err != nil {
		return nil, err
	}

	logging.WithComponent("menu").Debug("menu built", "submenus", len(tree.Submenus), "items", len(tree.Items()))
	return tree, nil
}

// Validate rejects trees with untitled submenus, blank or duplicate ids, ids with no
// matching Action, or malformed accelerators.
func Validate(t *Tree) error {
	if t == nil || len(t.Submenus) == 0 {
		return fmt.Errorf("%w: empty menu", ErrMenuConstruction)
	}

	seen := make(map[string]bool)
	for _, sub := range t.Submenus {
		if strings.TrimSpace(sub.Title) == "" {
			return fmt.Errorf("%w: submenu without title", ErrMenuConstruction)
		}
		for _, e := range sub.Entries {
			if e.Kind != EntryItem {
				continue
			}
			it := e.Item
			if it.ID == "" || it.Label == "" {
				return fmt.Errorf("%w: item %q needs an id and a label", ErrMenuConstruction, it.ID)
			}
			if seen[it.ID] {
				return fmt.Errorf("%w: duplicate item id %q", ErrMenuConstruction, it.ID)
			}
			seen[it.ID] = true
			if ParseAction(it.ID) == ActionUnknown {
				return fmt.Errorf("%w: item %q has no action", ErrMenuConstruction, it.ID)
			}
			if err := validateAccelerator(it.Accelerator); err != nil {
				return fmt.Errorf("%w: item %q: %w", ErrMenuConstruction, it.ID, err)
			}
		}
	}
	return nil
}

func validateAccelerator(accel string) error {
	if accel == "" {
		return nil
	}
	parts := strings.Split(accel, "+")
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("malformed accelerator %q", accel)
		}
	}
	return nil
}
