// Package gui is the desktop configuration window.
package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"contagion/internal/capture"
	"contagion/internal/config"
	"contagion/internal/state"
)

const statusRefresh = 250 * time.Millisecond

// Controls is what the window drives.
type Controls struct {
	Config     *config.Manager
	State      *state.State
	Capture    *capture.Capturer
	SetEnabled func(bool)
}

// Window is the configuration window. Widgets are only touched on the fyne
// goroutine; other goroutines go through fyne.Do.
type Window struct {
	win      fyne.Window
	controls Controls

	status   *widget.Label
	enabled  *widget.Check
	entries  []*widget.Entry
	formula  *widget.Check
	derived  *widget.Label
	altCheck *widget.Check
	bindings map[capture.Target]*widget.Button
}

// New builds the window on app.
func New(app fyne.App, c Controls) *Window {
	w := &Window{
		win:      app.NewWindow("Contagion"),
		controls: c,
		bindings: make(map[capture.Target]*widget.Button),
	}
	w.win.SetContent(w.content())
	w.win.Resize(fyne.NewSize(520, 640))

	c.Config.RegisterChangeCallback(func(config.Config) {
		fyne.Do(w.refreshConfig)
	})
	c.Capture.OnDone(func(capture.Result) {
		fyne.Do(w.refreshConfig)
	})
	return w
}

func (w *Window) content() fyne.CanvasObject {
	c := w.controls
	cfg := c.Config.Snapshot()

	w.status = widget.NewLabel(c.State.String())
	w.enabled = widget.NewCheck("Macro enabled", func(on bool) {
		if on != c.State.MacroEnabled() {
			c.SetEnabled(on)
		}
	})
	w.enabled.SetChecked(c.State.MacroEnabled())

	form := widget.NewForm()
	for _, f := range timingFields {
		e := widget.NewEntry()
		e.SetText(f.get(cfg))
		w.entries = append(w.entries, e)
		form.Append(f.label, e)
	}
	w.formula = widget.NewCheck("Derive emote delay from FPS", nil)
	w.formula.SetChecked(cfg.UseEmoteFormula)
	form.Append("", w.formula)
	w.derived = widget.NewLabel(derivedText(cfg))

	apply := widget.NewButton("Apply", w.apply)
	reset := widget.NewButton("Defaults", func() {
		def := config.Default()
		for i, f := range timingFields {
			w.entries[i].SetText(f.get(def))
		}
		w.formula.SetChecked(def.UseEmoteFormula)
	})

	binds := container.NewGridWithColumns(2)
	for _, target := range capture.Targets() {
		btn := widget.NewButton(target.Current(cfg), func() {
			c.Capture.Begin(target)
			w.bindings[target].SetText("press " + inputKind(target) + "…")
		})
		w.bindings[target] = btn
		binds.Add(widget.NewLabel(target.String()))
		binds.Add(btn)
	}
	w.altCheck = widget.NewCheck("Alternate trigger enabled", func(on bool) {
		if on != c.Config.Snapshot().MacroAltEnabled {
			c.Config.Update(func(cfg *config.Config) { cfg.MacroAltEnabled = on })
		}
	})
	w.altCheck.SetChecked(cfg.MacroAltEnabled)

	return container.NewVScroll(container.NewVBox(
		container.NewHBox(w.enabled, w.status),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Timing", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		w.derived,
		container.NewHBox(apply, reset),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Bindings (Esc cancels)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		binds,
		w.altCheck,
	))
}

func inputKind(t capture.Target) string {
	if t.IsButton() {
		return "a mouse button"
	}
	return "a key"
}

// apply stores the timing form. Bindings are stored by capture directly.
func (w *Window) apply() {
	values := make([]string, len(w.entries))
	for i, e := range w.entries {
		values[i] = e.Text
	}

	var applyErr error
	w.controls.Config.Update(func(cfg *config.Config) {
		next, err := applyFields(*cfg, values, w.formula.Checked)
		if err != nil {
			applyErr = err
			return
		}
		*cfg = next
	})
	if applyErr != nil {
		dialog.ShowError(fmt.Errorf("settings not applied: %w", applyErr), w.win)
	}
}

// refreshConfig shows the stored bindings and derived delays.
func (w *Window) refreshConfig() {
	cfg := w.controls.Config.Snapshot()
	armed, isArmed := w.controls.Capture.Armed()
	for target, btn := range w.bindings {
		if isArmed && armed == target {
			continue
		}
		btn.SetText(target.Current(cfg))
	}
	w.derived.SetText(derivedText(cfg))
	w.altCheck.SetChecked(cfg.MacroAltEnabled)
}

// refreshStatus shows the shared flags.
func (w *Window) refreshStatus() {
	w.status.SetText(w.controls.State.String())
	w.enabled.SetChecked(w.controls.State.MacroEnabled())
}

// Poll refreshes the status line until ctx is done.
func (w *Window) Poll(ctx context.Context) {
	ticker := time.NewTicker(statusRefresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fyne.Do(w.refreshStatus)
		}
	}
}

// SetOnClosed sets the close handler.
func (w *Window) SetOnClosed(fn func()) {
	w.win.SetOnClosed(fn)
}

// ShowAndRun shows the window and runs the app loop.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}
