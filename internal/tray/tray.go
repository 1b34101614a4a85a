// Package tray provides system tray functionality. Windows and Linux use
// getlantern/systray; macOS uses the fyne status-bar driver.
package tray

import "sync"

type itemKind int

const (
	kindItem itemKind = iota
	kindCheckbox
	kindLabel
	kindSeparator
)

// MenuItem represents a menu item
type MenuItem struct {
	ID       int
	Title    string
	Checked  bool
	Callback func()

	kind   itemKind
	native nativeItem
}

// Tray manages the system tray icon and menu. Items are declared before Run
// and may be retitled or checked from any goroutine afterwards.
type Tray struct {
	title   string
	tooltip string

	mu      sync.Mutex
	items   []*MenuItem
	readyCh chan struct{}
	quitCh  chan struct{}

	backend
}

// New creates a new system tray
func New(title, tooltip string) *Tray {
	return &Tray{
		title:   title,
		tooltip: tooltip,
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

func (t *Tray) add(mi *MenuItem) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	mi.ID = len(t.items)
	t.items = append(t.items, mi)
	return mi.ID
}

// AddMenuItem adds a menu item to the tray
func (t *Tray) AddMenuItem(title string, callback func()) int {
	return t.add(&MenuItem{Title: title, Callback: callback, kind: kindItem})
}

// AddCheckbox adds a checkable item. The callback does not toggle the check
// mark; call SetItemChecked.
func (t *Tray) AddCheckbox(title string, checked bool, callback func()) int {
	return t.add(&MenuItem{Title: title, Checked: checked, Callback: callback, kind: kindCheckbox})
}

// AddLabel adds a disabled item used to display text.
func (t *Tray) AddLabel(title string) int {
	return t.add(&MenuItem{Title: title, kind: kindLabel})
}

// AddSeparator adds a separator to the menu
func (t *Tray) AddSeparator() {
	t.add(&MenuItem{kind: kindSeparator})
}

func (t *Tray) lookup(id int) *MenuItem {
	if id < 0 || id >= len(t.items) || t.items[id].kind == kindSeparator {
		return nil
	}
	return t.items[id]
}

// SetItemChecked sets the checked state of a menu item
func (t *Tray) SetItemChecked(id int, checked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mi := t.lookup(id)
	if mi == nil || mi.Checked == checked {
		return
	}
	mi.Checked = checked
	t.sync(mi)
}

// SetItemTitle changes the text of a menu item.
func (t *Tray) SetItemTitle(id int, title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mi := t.lookup(id)
	if mi == nil || mi.Title == title {
		return
	}
	mi.Title = title
	t.sync(mi)
}

// Item returns a copy of the declared item.
func (t *Tray) Item(id int) (MenuItem, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mi := t.lookup(id)
	if mi == nil {
		return MenuItem{}, false
	}
	return *mi, true
}

// Ready is closed once the menu exists.
func (t *Tray) Ready() <-chan struct{} { return t.readyCh }

// Done is closed when the tray exits.
func (t *Tray) Done() <-chan struct{} { return t.quitCh }

// getIcon returns a placeholder icon (valid 16x16 ICO)
func getIcon() []byte {
	icon := make([]byte, 1118)
	// ICO Header
	copy(icon[0:6], []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00})
	// Icon Directory
	copy(icon[6:22], []byte{
		0x10, 0x10, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00,
		0x48, 0x04, 0x00, 0x00, // 1024 pixels + 40 header + 32 mask
		0x16, 0x00, 0x00, 0x00, // Offset
	})
	// DIB Header
	copy(icon[22:62], []byte{
		0x28, 0x00, 0x00, 0x00, // Size
		0x10, 0x00, 0x00, 0x00, // Width
		0x20, 0x00, 0x00, 0x00, // Height (16 * 2 for icon)
		0x01, 0x00, // Planes
		0x20, 0x00, // BPP
		0x00, 0x00, 0x00, 0x00, // Compression
		0x00, 0x04, 0x00, 0x00, // Image Size
	})
	// Fill the pixels with an opaque green-on-dark pattern.
	pixels := icon[62 : 62+1024]
	for i := 0; i < 256; i++ {
		x, y := i%16, i/16
		b, g, r := byte(0x20), byte(0x20), byte(0x20)
		if (x-8)*(x-8)+(y-8)*(y-8) < 36 {
			g = 0xC0
		}
		copy(pixels[i*4:], []byte{b, g, r, 0xFF})
	}
	return icon
}
