//go:build !darwin

package tray

import "github.com/getlantern/systray"

type nativeItem = *systray.MenuItem

type backend struct{}

// sync pushes the item state to the live menu. t.mu is held.
func (t *Tray) sync(mi *MenuItem) {
	if mi.native == nil {
		return
	}
	mi.native.SetTitle(mi.Title)
	if mi.kind != kindCheckbox {
		return
	}
	if mi.Checked {
		mi.native.Check()
	} else {
		mi.native.Uncheck()
	}
}

// Run starts the tray event loop (blocks)
func (t *Tray) Run() {
	systray.Run(t.setupMenu, func() { close(t.quitCh) })
}

// setupMenu is called when systray is ready
func (t *Tray) setupMenu() {
	systray.SetTitle(t.title)
	systray.SetTooltip(t.tooltip)
	systray.SetIcon(getIcon())

	t.mu.Lock()
	for _, menuItem := range t.items {
		switch menuItem.kind {
		case kindSeparator:
			systray.AddSeparator()
			continue
		case kindCheckbox:
			menuItem.native = systray.AddMenuItemCheckbox(menuItem.Title, "", menuItem.Checked)
		default:
			menuItem.native = systray.AddMenuItem(menuItem.Title, "")
		}
		if menuItem.kind == kindLabel {
			menuItem.native.Disable()
		}

		// Handle clicks in goroutine
		if menuItem.Callback != nil {
			go func(mi *MenuItem, clicked chan struct{}) {
				for {
					select {
					case <-clicked:
						mi.Callback()
					case <-t.quitCh:
						return
					}
				}
			}(menuItem, menuItem.native.ClickedCh)
		}
	}
	t.mu.Unlock()

	close(t.readyCh)
}

// Stop stops the tray
func (t *Tray) Stop() {
	systray.Quit()
}
