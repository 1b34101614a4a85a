//go:build darwin

package tray

import (
	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

// The fyne driver links its own status-bar code on macOS, and a second
// systray library would define the same Objective-C symbols, so the menu is
// built on fyne here.

type nativeItem = *fyne.MenuItem

type backend struct {
	app  fyne.App
	menu *fyne.Menu
}

// sync pushes the item state to the live menu. t.mu is held.
func (t *Tray) sync(mi *MenuItem) {
	if mi.native == nil || t.menu == nil {
		return
	}
	item, menu := mi.native, t.menu
	title, checked := mi.Title, mi.Checked
	fyne.Do(func() {
		item.Label = title
		item.Checked = checked
		menu.Refresh()
	})
}

// fyneMenu converts the declared items. t.mu is held.
func (t *Tray) fyneMenu() *fyne.Menu {
	items := make([]*fyne.MenuItem, 0, len(t.items))
	for _, mi := range t.items {
		if mi.kind == kindSeparator {
			items = append(items, fyne.NewMenuItemSeparator())
			continue
		}
		fi := fyne.NewMenuItem(mi.Title, mi.Callback)
		fi.Checked = mi.kind == kindCheckbox && mi.Checked
		fi.Disabled = mi.kind == kindLabel
		mi.native = fi
		items = append(items, fi)
	}
	return fyne.NewMenu(t.title, items...)
}

// Run starts the fyne event loop with only a status-bar menu (blocks).
func (t *Tray) Run() {
	a := fyneapp.NewWithID("io.contagion.tray")
	desk, ok := a.(desktop.App)
	if !ok {
		close(t.quitCh)
		return
	}

	t.mu.Lock()
	t.app = a
	t.menu = t.fyneMenu()
	menu := t.menu
	t.mu.Unlock()

	desk.SetSystemTrayIcon(fyne.NewStaticResource("contagion.ico", getIcon()))
	desk.SetSystemTrayMenu(menu)
	a.Lifecycle().SetOnStarted(func() { close(t.readyCh) })
	a.Run()
	close(t.quitCh)
}

// Stop stops the tray
func (t *Tray) Stop() {
	t.mu.Lock()
	a := t.app
	t.mu.Unlock()
	if a != nil {
		fyne.Do(a.Quit)
	}
}
