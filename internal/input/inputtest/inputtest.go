// Package inputtest provides in-memory input backends for tests.
package inputtest

import (
	"sync"
	"time"

	"contagion/internal/input"
	"contagion/internal/keys"
)

// Kind identifies a recorded event.
type Kind int

const (
	KeyDown Kind = iota
	KeyUp
	ButtonDown
	ButtonUp
)

func (k Kind) String() string {
	switch k {
	case KeyDown:
		return "key-down"
	case KeyUp:
		return "key-up"
	case ButtonDown:
		return "button-down"
	case ButtonUp:
		return "button-up"
	}
	return "unknown"
}

// Event is one injected action.
type Event struct {
	Kind   Kind
	Key    keys.Key
	Button keys.Button
	At     time.Time
}

// Recorder is an input.Injector that records every call. All injectors
// returned by Factory share one log.
type Recorder struct {
	mu          sync.Mutex
	events      []Event
	heldKeys    map[keys.Key]int
	heldButtons map[keys.Button]int
	acquired    int

	// AcquireErr, when set, makes Factory fail.
	AcquireErr error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		heldKeys:    make(map[keys.Key]int),
		heldButtons: make(map[keys.Button]int),
	}
}

// Factory returns an InjectorFactory handing out this recorder.
func (r *Recorder) Factory() input.InjectorFactory {
	return func() (input.Injector, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.AcquireErr != nil {
			return nil, r.AcquireErr
		}
		r.acquired++
		return r, nil
	}
}

// Acquired returns how many injectors were handed out.
func (r *Recorder) Acquired() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acquired
}

func (r *Recorder) record(e Event) {
	e.At = time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	switch e.Kind {
	case KeyDown:
		r.heldKeys[e.Key]++
	case KeyUp:
		if r.heldKeys[e.Key] > 0 {
			r.heldKeys[e.Key]--
		}
	case ButtonDown:
		r.heldButtons[e.Button]++
	case ButtonUp:
		if r.heldButtons[e.Button] > 0 {
			r.heldButtons[e.Button]--
		}
	}
}

func (r *Recorder) PressKey(k keys.Key) error {
	r.record(Event{Kind: KeyDown, Key: k})
	return nil
}

func (r *Recorder) ReleaseKey(k keys.Key) error {
	r.record(Event{Kind: KeyUp, Key: k})
	return nil
}

func (r *Recorder) PressButton(b keys.Button) error {
	r.record(Event{Kind: ButtonDown, Button: b})
	return nil
}

func (r *Recorder) ReleaseButton(b keys.Button) error {
	r.record(Event{Kind: ButtonUp, Button: b})
	return nil
}

// Events returns a copy of the log.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Held reports whether anything pressed is still unreleased.
func (r *Recorder) Held() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.heldKeys {
		if n > 0 {
			return true
		}
	}
	for _, n := range r.heldButtons {
		if n > 0 {
			return true
		}
	}
	return false
}

// Count returns the number of events of the given kind for a key or button.
// Pass keys.Unknown or 0 to match any.
func (r *Recorder) Count(kind Kind, k keys.Key, b keys.Button) int {
	n := 0
	for _, e := range r.Events() {
		if e.Kind != kind {
			continue
		}
		if k != keys.Unknown && e.Key != k {
			continue
		}
		if b != 0 && e.Button != b {
			continue
		}
		n++
	}
	return n
}

// WaitFor polls until cond holds for the log or the timeout passes.
func (r *Recorder) WaitFor(timeout time.Duration, cond func([]Event) bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond(r.Events()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

// Device is a scripted input.DeviceQuery.
type Device struct {
	mu      sync.Mutex
	keys    keys.Set
	buttons [int(keys.MaxButton) + 1]bool
	polls   int
}

// NewDevice returns a device with nothing held.
func NewDevice() *Device {
	return &Device{keys: keys.Set{}}
}

func (d *Device) Press(k keys.Key) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys[k] = struct{}{}
}

func (d *Device) Release(k keys.Key) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.keys, k)
}

func (d *Device) PressButton(b keys.Button) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buttons[b] = true
}

func (d *Device) ReleaseButton(b keys.Button) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buttons[b] = false
}

// Polls returns how many times the buttons were queried.
func (d *Device) Polls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.polls
}

func (d *Device) Keys() []keys.Key {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]keys.Key, 0, len(d.keys))
	for k := range d.keys {
		out = append(out, k)
	}
	return out
}

func (d *Device) MouseButtons() []bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.polls++
	out := make([]bool, len(d.buttons))
	copy(out, d.buttons[:])
	return out
}

// Probe is a switchable focus probe. It ignores the target name and
// counts calls.
type Probe struct {
	mu     sync.Mutex
	active bool
	panics bool
	calls  int
}

// NewProbe returns a probe reporting active.
func NewProbe(active bool) *Probe {
	return &Probe{active: active}
}

func (p *Probe) Set(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = active
}

// SetPanic makes subsequent probes panic.
func (p *Probe) SetPanic(panics bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.panics = panics
}

// Calls returns how many probes ran.
func (p *Probe) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *Probe) IsTargetForeground(string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.panics {
		panic("inputtest: probe failure")
	}
	return p.active
}
