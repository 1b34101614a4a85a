// Package capture records the next key or mouse button the user presses and
// stores it as a binding.
package capture

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"contagion/internal/config"
	"contagion/internal/input"
	"contagion/internal/keys"
	"contagion/internal/timing"
)

const (
	pollInterval = 10 * time.Millisecond

	// armDelay keeps the click that started a capture from being captured.
	armDelay = 200 * time.Millisecond

	// minButtonSlots is how many button indices are scanned even when the
	// query reports fewer.
	minButtonSlots = 10
)

// Target is the binding a capture writes.
type Target int

const (
	MeleeKey Target = iota
	JumpKey
	EmoteKey
	RapidClickKey
	AimButton
	FireButton
	MacroButton
	MacroAltButton
)

var targetNames = [...]string{
	MeleeKey:       "melee_key",
	JumpKey:        "jump_key",
	EmoteKey:       "emote_key",
	RapidClickKey:  "rapid_click_key",
	AimButton:      "aim_button",
	FireButton:     "fire_button",
	MacroButton:    "macro_button",
	MacroAltButton: "macro_alt_button",
}

// Targets lists every target in display order.
func Targets() []Target {
	return []Target{MeleeKey, JumpKey, EmoteKey, RapidClickKey, AimButton, FireButton, MacroButton, MacroAltButton}
}

func (t Target) String() string {
	if t < 0 || int(t) >= len(targetNames) {
		return "unknown"
	}
	return targetNames[t]
}

// IsButton reports whether t binds a mouse button.
func (t Target) IsButton() bool {
	return t >= AimButton
}

// Current returns the display value of t in cfg.
func (t Target) Current(cfg config.Config) string {
	switch t {
	case MeleeKey:
		return cfg.MeleeKey
	case JumpKey:
		return cfg.JumpKey
	case EmoteKey:
		return cfg.EmoteKey
	case RapidClickKey:
		return cfg.RapidClickKey
	case AimButton:
		return keys.Button(cfg.AimButton).String()
	case FireButton:
		return keys.Button(cfg.FireButton).String()
	case MacroButton:
		return keys.Button(cfg.MacroButton).String()
	case MacroAltButton:
		return keys.Button(cfg.MacroAltButton).String()
	}
	return ""
}

// Result reports the end of a capture. Cancelled is set when Escape aborted
// it; Value is the stored binding otherwise.
type Result struct {
	Target    Target
	Value     string
	Cancelled bool
}

// Capturer polls the device while a capture is armed. It only ever writes
// binding fields of the configuration.
type Capturer struct {
	config *config.Manager
	query  input.DeviceQuery
	logger *slog.Logger

	mu      sync.Mutex
	armed   bool
	target  Target
	started bool
	readyAt time.Time
	keys    keys.Set
	buttons []bool
	onDone  []func(Result)

	// now is replaced in tests.
	now func() time.Time
}

// New creates a Capturer.
func New(cfg *config.Manager, query input.DeviceQuery, logger *slog.Logger) *Capturer {
	return &Capturer{
		config: cfg,
		query:  query,
		logger: logger.With("component", "capture"),
		now:    time.Now,
	}
}

// OnDone registers a callback run after every capture ends.
func (c *Capturer) OnDone(fn func(Result)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDone = append(c.onDone, fn)
}

// Begin arms a capture for t, replacing any capture in progress.
func (c *Capturer) Begin(t Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armed = true
	c.target = t
	c.started = false
	c.logger.Info("waiting for input", "target", t)
}

// Cancel disarms without writing anything.
func (c *Capturer) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.armed = false
}

// Armed returns the pending target, if any.
func (c *Capturer) Armed() (Target, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target, c.armed
}

// Run polls until ctx is done.
func (c *Capturer) Run(ctx context.Context) {
	for timing.Wait(ctx, pollInterval) {
		c.Poll()
	}
}

// Poll runs one capture step.
func (c *Capturer) Poll() {
	c.mu.Lock()
	if !c.armed {
		c.mu.Unlock()
		return
	}

	held := keys.NewSet(c.query.Keys())
	buttons := c.query.MouseButtons()
	now := c.now()

	if !c.started {
		c.started = true
		c.readyAt = now.Add(armDelay)
		c.keys, c.buttons = held, buttons
		c.mu.Unlock()
		return
	}
	if now.Before(c.readyAt) {
		c.mu.Unlock()
		return
	}

	target := c.target
	prevKeys, prevButtons := c.keys, c.buttons
	c.keys, c.buttons = held, buttons

	var (
		res   *Result
		apply func(*config.Config)
	)
	switch {
	case held.Has(keys.Escape) && !prevKeys.Has(keys.Escape):
		res = &Result{Target: target, Cancelled: true}
	case target.IsButton():
		if b, ok := newButton(buttons, prevButtons); ok {
			res = &Result{Target: target, Value: b.String()}
			apply = func(cfg *config.Config) { setButton(cfg, target, b) }
		}
	default:
		if k, ok := newKey(held, prevKeys); ok {
			res = &Result{Target: target, Value: k.String()}
			apply = func(cfg *config.Config) { setKey(cfg, target, k) }
		}
	}
	if res == nil {
		c.mu.Unlock()
		return
	}

	c.armed = false
	callbacks := c.onDone
	c.mu.Unlock()

	if apply != nil {
		c.config.Update(apply)
	}
	if res.Cancelled {
		c.logger.Info("capture cancelled", "target", target)
	} else {
		c.logger.Info("binding captured", "target", target, "value", res.Value)
	}
	for _, fn := range callbacks {
		fn(*res)
	}
}

// newKey returns the first newly pressed non-modifier key.
func newKey(held, prev keys.Set) (keys.Key, bool) {
	for _, k := range keys.All() {
		if k.IsModifier() || k == keys.Escape {
			continue
		}
		if held.Has(k) && !prev.Has(k) {
			return k, true
		}
	}
	return keys.Unknown, false
}

// newButton returns the lowest newly pressed button index.
func newButton(buttons, prev []bool) (keys.Button, bool) {
	n := max(len(buttons), minButtonSlots)
	for i := range n {
		b := keys.Button(i)
		if b.Pressed(buttons) && !b.Pressed(prev) {
			return b, true
		}
	}
	return 0, false
}

func setKey(cfg *config.Config, t Target, k keys.Key) {
	name := k.String()
	switch t {
	case MeleeKey:
		cfg.MeleeKey = name
	case JumpKey:
		cfg.JumpKey = name
	case EmoteKey:
		cfg.EmoteKey = name
	case RapidClickKey:
		cfg.RapidClickKey = name
	}
}

func setButton(cfg *config.Config, t Target, b keys.Button) {
	switch t {
	case AimButton:
		cfg.AimButton = int(b)
	case FireButton:
		cfg.FireButton = int(b)
	case MacroButton:
		cfg.MacroButton = int(b)
	case MacroAltButton:
		cfg.MacroAltButton = int(b)
	}
}
