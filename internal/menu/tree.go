// Package menu builds the native application menu independent of the UI host.
package menu

// Item is a menu entry bound to an action.
type Item struct {
	ID          string
	Label       string
	Accelerator string
}

// Role is a predefined entry whose behaviour the host supplies.
type Role string

const (
	RoleAbout      Role = "about"
	RoleServices   Role = "services"
	RoleHide       Role = "hide"
	RoleHideOthers Role = "hide-others"
	RoleShowAll    Role = "show-all"
	RoleQuit       Role = "quit"
)

// EntryKind tells entries apart.
type EntryKind int

const (
	EntryItem EntryKind = iota
	EntrySeparator
	EntryPredefined
)

// Entry is one row of a submenu.
type Entry struct {
	Kind EntryKind
	Item Item // EntryItem only
	Role Role // EntryPredefined only
}

// Submenu is a titled, ordered list of entries.
type Submenu struct {
	Title   string
	Entries []Entry
}

// Tree is the full application menu.
type Tree struct {
	Submenus []Submenu
}

// Items returns every action item in the tree, in order.
func (t *Tree) Items() []Item {
	var items []Item
	for _, sub := range t.Submenus {
		for _, e := range sub.Entries {
			if e.Kind == EntryItem {
				items = append(items, e.Item)
			}
		}
	}
	return items
}

type submenuBuilder struct {
	sub Submenu
}

func newSubmenu(title string) *submenuBuilder {
	return &submenuBuilder{sub: Submenu{Title: title}}
}

func (b *submenuBuilder) item(it Item) *submenuBuilder {
	b.sub.Entries = append(b.sub.Entries, Entry{Kind: EntryItem, Item: it})
	return b
}

func (b *submenuBuilder) role(r Role) *submenuBuilder {
	b.sub.Entries = append(b.sub.Entries, Entry{Kind: EntryPredefined, Role: r})
	return b
}

func (b *submenuBuilder) separator() *submenuBuilder {
	b.sub.Entries = append(b.sub.Entries, Entry{Kind: EntrySeparator})
	return b
}

func (b *submenuBuilder) build() Submenu {
	return b.sub
}
