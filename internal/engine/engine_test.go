package engine

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"contagion/internal/config"
	"contagion/internal/cue"
	"contagion/internal/focus"
	"contagion/internal/input"
	"contagion/internal/input/inputtest"
	"contagion/internal/keys"
	"contagion/internal/logging"
	"contagion/internal/state"
)

type recordingCues struct {
	mu     sync.Mutex
	played []cue.Cue
}

func (r *recordingCues) Play(c cue.Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, c)
}

func (r *recordingCues) list() []cue.Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]cue.Cue(nil), r.played...)
}

type panicQuery struct{}

func (panicQuery) Keys() []keys.Key     { panic("device gone") }
func (panicQuery) MouseButtons() []bool { panic("device gone") }

// fastConfig shortens every delay to about a millisecond.
func fastConfig() config.Config {
	cfg := config.Default()
	cfg.JumpDelay = cfg.FPS // 1ms hold
	cfg.AimMeleeDelayMs = 1
	cfg.MeleeHoldTimeMs = 1
	cfg.UseEmoteFormula = false
	cfg.EmotePreparationDelayMs = 1
	cfg.RapidFireDurationMs = 5
	cfg.RapidFireClickDelayMs = 1
	cfg.SequenceEndDelayMs = 1
	cfg.LoopDelayMs = 1
	cfg.RapidClickDelayMs = 1
	return cfg
}

type harness struct {
	engine *Engine
	cfg    *config.Manager
	state  *state.State
	device *inputtest.Device
	rec    *inputtest.Recorder
	cues   *recordingCues
	logs   *syncWriter
}

func newHarness(t *testing.T, cfg config.Config) *harness {
	t.Helper()
	h := &harness{
		cfg:    config.NewManager(cfg),
		state:  state.New(true),
		device: inputtest.NewDevice(),
		rec:    inputtest.NewRecorder(),
		cues:   &recordingCues{},
		logs:   &syncWriter{},
	}
	logger, err := logging.New(logging.Options{Level: "debug", Output: h.logs})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	h.engine, err = New(Options{
		Config:   h.cfg,
		State:    h.state,
		Query:    h.device,
		Injector: h.rec.Factory(),
		Logger:   logger,
		Cues:     h.cues,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.state.SetHostActive(true)
	t.Cleanup(func() {
		h.state.StopRunning()
		h.state.SetMacroEnabled(false)
		h.engine.tasks.Wait()
	})
	return h
}

type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (h *harness) logOutput() string {
	h.logs.mu.Lock()
	defer h.logs.mu.Unlock()
	return h.logs.buf.String()
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error without collaborators")
	}
}

func TestNewRejectsBadToggleHotkey(t *testing.T) {
	cfg := config.Default()
	cfg.ToggleHotkey = "Ctrl+"
	_, err := New(Options{
		Config:   config.NewManager(cfg),
		State:    state.New(true),
		Query:    inputtest.NewDevice(),
		Injector: inputtest.NewRecorder().Factory(),
		Logger:   logging.Discard(),
	})
	if err == nil {
		t.Error("expected error for invalid toggle hotkey")
	}
}

func TestOneStartPerPress(t *testing.T) {
	h := newHarness(t, fastConfig())

	h.device.PressButton(keys.Side1)
	h.engine.Tick()
	if !h.state.Running() {
		t.Fatal("press edge should start the sequence")
	}
	for range 5 {
		h.engine.Tick()
	}

	h.device.ReleaseButton(keys.Side1)
	h.engine.Tick()
	if h.state.Running() {
		t.Error("release edge should stop the sequence")
	}
	h.engine.tasks.Wait()

	if got := h.rec.Acquired(); got != 1 {
		t.Errorf("Expected exactly one executor, got %d", got)
	}
	if h.rec.Held() {
		t.Error("inputs left held after the sequence stopped")
	}
}

func TestAltTriggerRespectsEnableFlag(t *testing.T) {
	cfg := fastConfig()
	cfg.MacroAltEnabled = false
	h := newHarness(t, cfg)

	h.device.PressButton(keys.Side2)
	h.engine.Tick()
	if h.state.Running() {
		t.Error("disabled alternate trigger must not start the sequence")
	}

	h.device.ReleaseButton(keys.Side2)
	h.engine.Tick()
	h.cfg.Update(func(c *config.Config) { c.MacroAltEnabled = true })
	h.device.PressButton(keys.Side2)
	h.engine.Tick()
	if !h.state.Running() {
		t.Error("enabled alternate trigger should start the sequence")
	}
}

func TestNoStartWhenDisabledOrInactive(t *testing.T) {
	h := newHarness(t, fastConfig())

	h.state.SetMacroEnabled(false)
	h.device.PressButton(keys.Side1)
	h.engine.Tick()
	if h.state.Running() {
		t.Error("sequence started while disabled")
	}
	h.device.ReleaseButton(keys.Side1)
	h.engine.Tick()

	h.state.SetMacroEnabled(true)
	h.state.SetHostActive(false)
	h.device.PressButton(keys.Side1)
	h.engine.Tick()
	if h.state.Running() {
		t.Error("sequence started while host inactive")
	}

	// Focus returning while the trigger is still held is a fresh edge.
	h.state.SetHostActive(true)
	h.engine.Tick()
	if !h.state.Running() {
		t.Error("expected start once the host is active again")
	}
}

func TestHostInactiveClearsRunning(t *testing.T) {
	h := newHarness(t, fastConfig())

	h.device.PressButton(keys.Side1)
	h.engine.Tick()
	if !h.state.Running() {
		t.Fatal("expected running")
	}

	h.state.SetHostActive(false)
	if d := h.engine.Tick(); d != h.cfg.Snapshot().PollInterval(false) {
		t.Errorf("Expected idle poll interval, got %v", d)
	}
	if h.state.Running() {
		t.Error("running must be cleared while the host is inactive")
	}
	h.engine.tasks.Wait()
	if h.rec.Held() {
		t.Error("inputs left held after focus loss")
	}
}

func TestPollIntervalAdapts(t *testing.T) {
	h := newHarness(t, fastConfig())
	cfg := h.cfg.Snapshot()

	if d := h.engine.Tick(); d != cfg.PollInterval(false) {
		t.Errorf("idle: got %v, want %v", d, cfg.PollInterval(false))
	}
	h.device.PressButton(keys.Side1)
	if d := h.engine.Tick(); d != cfg.PollInterval(true) {
		t.Errorf("running: got %v, want %v", d, cfg.PollInterval(true))
	}
}

func TestToggleHotkey(t *testing.T) {
	h := newHarness(t, fastConfig())

	h.device.Press(keys.F11)
	if d := h.engine.Tick(); d != toggleDebounce {
		t.Errorf("Expected debounce wait, got %v", d)
	}
	if h.state.MacroEnabled() {
		t.Error("toggle should disable the macro")
	}
	h.engine.Tick()
	if !h.state.MacroEnabled() {
		t.Error("second toggle should enable the macro")
	}

	got := h.cues.list()
	if len(got) != 2 || got[0] != cue.Disabled || got[1] != cue.Enabled {
		t.Errorf("unexpected cues: %v", got)
	}
}

func TestToggleHotkeyRebinds(t *testing.T) {
	h := newHarness(t, fastConfig())

	h.cfg.Update(func(c *config.Config) { c.ToggleHotkey = "Ctrl+F10" })

	h.device.Press(keys.F11)
	h.engine.Tick()
	if !h.state.MacroEnabled() {
		t.Error("old hotkey should no longer toggle")
	}
	h.device.Release(keys.F11)

	h.device.Press(keys.LControl)
	h.device.Press(keys.F10)
	h.engine.Tick()
	if h.state.MacroEnabled() {
		t.Error("new hotkey should toggle")
	}

	// An invalid combo keeps the previous binding.
	h.cfg.Update(func(c *config.Config) { c.ToggleHotkey = "" })
	h.engine.Tick()
	if !h.state.MacroEnabled() {
		t.Error("previous hotkey should still be bound")
	}
}

func TestToggleWorksWhileHostInactive(t *testing.T) {
	h := newHarness(t, fastConfig())
	h.state.SetHostActive(false)

	h.device.Press(keys.F11)
	h.engine.Tick()
	if h.state.MacroEnabled() {
		t.Error("toggle should work without focus")
	}
}

func TestFallbackWarnedOnce(t *testing.T) {
	cfg := fastConfig()
	cfg.MeleeKey = "Nope"
	h := newHarness(t, cfg)

	for range 3 {
		h.engine.Tick()
	}
	if n := strings.Count(h.logOutput(), "binding fallback"); n != 1 {
		t.Errorf("Expected one fallback warning, got %d", n)
	}
}

func TestPanickingQueryIsNoInput(t *testing.T) {
	h := newHarness(t, fastConfig())
	h.engine.query = panicQuery{}

	h.engine.Tick()
	if h.state.Running() {
		t.Error("no input should not start anything")
	}
	if !strings.Contains(h.logOutput(), "device query failed") {
		t.Error("expected the failure to be logged")
	}
}

func TestInjectorFailureLeavesRunningToPoller(t *testing.T) {
	h := newHarness(t, fastConfig())
	h.rec.AcquireErr = input.ErrNoDisplay

	h.device.PressButton(keys.Side1)
	h.engine.Tick()
	h.engine.tasks.Wait()

	if !h.state.Running() {
		t.Error("running is only cleared by the trigger release")
	}
	if n := len(h.rec.Events()); n != 0 {
		t.Errorf("Expected no events, got %d", n)
	}

	h.device.ReleaseButton(keys.Side1)
	h.engine.Tick()
	if h.state.Running() {
		t.Error("release should clear running")
	}
}

func TestRapidClickCount(t *testing.T) {
	cfg := fastConfig()
	cfg.RapidClickCount = 7
	cfg.RapidClickDelayMs = 3
	h := newHarness(t, cfg)

	h.device.Press(keys.J)
	h.engine.Tick()
	h.engine.Tick() // held, no new edge
	h.engine.tasks.Wait()

	fire := keys.Button(cfg.FireButton)
	if got := h.rec.Count(inputtest.ButtonDown, keys.Unknown, fire); got != 7 {
		t.Errorf("Expected 7 presses, got %d", got)
	}
	if got := h.rec.Count(inputtest.ButtonUp, keys.Unknown, fire); got != 7 {
		t.Errorf("Expected 7 releases, got %d", got)
	}
	if h.state.RapidClicking() {
		t.Error("burst flag should be cleared")
	}

	var downs []time.Time
	for _, ev := range h.rec.Events() {
		if ev.Kind == inputtest.ButtonDown && ev.Button == fire {
			downs = append(downs, ev.At)
		}
	}
	for i := 1; i < len(downs); i++ {
		if gap := downs[i].Sub(downs[i-1]); gap < cfg.RapidClickDelay() {
			t.Errorf("click %d came %v after the previous one, want >= %v", i, gap, cfg.RapidClickDelay())
		}
	}
}

func TestRapidClickAbortsWhenDisabled(t *testing.T) {
	cfg := fastConfig()
	cfg.RapidClickCount = 1000
	cfg.RapidClickDelayMs = 2
	h := newHarness(t, cfg)

	h.device.Press(keys.J)
	h.engine.Tick()
	h.rec.WaitFor(time.Second, func(ev []inputtest.Event) bool { return len(ev) >= 4 })
	h.state.SetMacroEnabled(false)
	h.engine.tasks.Wait()

	n := h.rec.Count(inputtest.ButtonDown, keys.Unknown, 0)
	if n < 2 || n >= 1000 {
		t.Errorf("Expected an early abort, got %d presses", n)
	}
	if h.rec.Held() {
		t.Error("fire left held after abort")
	}
}

func TestRapidClickBurstsDoNotOverlap(t *testing.T) {
	cfg := fastConfig()
	cfg.RapidClickCount = 20
	cfg.RapidClickDelayMs = 2
	h := newHarness(t, cfg)

	h.state.BeginRapidClick() // a burst is already in flight
	h.device.Press(keys.J)
	h.engine.Tick()
	h.engine.tasks.Wait()

	if n := len(h.rec.Events()); n != 0 {
		t.Errorf("overlapping burst injected %d events", n)
	}
}

func TestCancelDuringRapidFire(t *testing.T) {
	cfg := fastConfig()
	cfg.RapidFireDurationMs = 10_000
	h := newHarness(t, cfg)
	fire := keys.Button(cfg.FireButton)

	h.device.PressButton(keys.Side1)
	h.engine.Tick()

	ok := h.rec.WaitFor(2*time.Second, func(ev []inputtest.Event) bool {
		n := 0
		for _, e := range ev {
			if e.Kind == inputtest.ButtonDown && e.Button == fire {
				n++
			}
		}
		return n >= 3
	})
	if !ok {
		t.Fatal("rapid fire never started")
	}

	start := time.Now()
	h.device.ReleaseButton(keys.Side1)
	h.engine.Tick()
	h.engine.tasks.Wait()
	if d := time.Since(start); d > time.Second {
		t.Errorf("executor took %v to stop", d)
	}

	if h.rec.Held() {
		t.Error("inputs left held after cancellation")
	}

	// The cleanup releases melee, emote, aim and fire, in that order.
	kb, _ := cfg.Keybinds()
	ev := h.rec.Events()
	if len(ev) < 4 {
		t.Fatalf("too few events: %d", len(ev))
	}
	tail := ev[len(ev)-4:]
	want := []inputtest.Event{
		{Kind: inputtest.KeyUp, Key: kb.Melee},
		{Kind: inputtest.KeyUp, Key: kb.Emote},
		{Kind: inputtest.ButtonUp, Button: kb.Aim},
		{Kind: inputtest.ButtonUp, Button: kb.Fire},
	}
	for i, w := range want {
		if tail[i].Kind != w.Kind || tail[i].Key != w.Key || tail[i].Button != w.Button {
			t.Errorf("cleanup[%d] = %v %v %v, want %v %v %v",
				i, tail[i].Kind, tail[i].Key, tail[i].Button, w.Kind, w.Key, w.Button)
		}
	}
}

func TestSequenceStageOrder(t *testing.T) {
	cfg := fastConfig()
	cfg.RapidFireDurationMs = 0 // exactly one click
	h := newHarness(t, cfg)
	kb, _ := cfg.Keybinds()

	if !h.state.TryStartRunning() {
		t.Fatal("TryStartRunning failed")
	}
	inj, _ := h.rec.Factory()()
	h.engine.runOnce(inj, cfg, kb)

	want := []inputtest.Event{
		{Kind: inputtest.KeyDown, Key: kb.Jump},
		{Kind: inputtest.KeyUp, Key: kb.Jump},
		{Kind: inputtest.KeyDown, Key: kb.Jump},
		{Kind: inputtest.KeyUp, Key: kb.Jump},
		{Kind: inputtest.ButtonDown, Button: kb.Aim},
		{Kind: inputtest.KeyDown, Key: kb.Melee},
		{Kind: inputtest.KeyUp, Key: kb.Melee},
		{Kind: inputtest.ButtonUp, Button: kb.Aim},
		{Kind: inputtest.KeyDown, Key: kb.Emote},
		{Kind: inputtest.KeyUp, Key: kb.Emote},
		{Kind: inputtest.KeyDown, Key: kb.Emote},
		{Kind: inputtest.KeyUp, Key: kb.Emote},
		{Kind: inputtest.ButtonDown, Button: kb.Fire},
		{Kind: inputtest.ButtonUp, Button: kb.Fire},
	}

	got := h.rec.Events()
	if len(got) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Kind != w.Kind || got[i].Key != w.Key || got[i].Button != w.Button {
			t.Errorf("event %d = %v %v %v, want %v %v %v",
				i, got[i].Kind, got[i].Key, got[i].Button, w.Kind, w.Key, w.Button)
		}
	}

	// Holds are never shorter than configured.
	if d := got[1].At.Sub(got[0].At); d < cfg.DoubleJumpDelay() {
		t.Errorf("jump held %v, want >= %v", d, cfg.DoubleJumpDelay())
	}
	if d := got[6].At.Sub(got[5].At); d < cfg.MeleeHoldTime() {
		t.Errorf("melee held %v, want >= %v", d, cfg.MeleeHoldTime())
	}
	if d := got[8].At.Sub(got[7].At); d < cfg.EmotePreparationDelay() {
		t.Errorf("emote prepared after %v, want >= %v", d, cfg.EmotePreparationDelay())
	}
}

func TestStageSkippedWhenStopped(t *testing.T) {
	h := newHarness(t, fastConfig())
	cfg := h.cfg.Snapshot()
	kb, _ := cfg.Keybinds()

	inj, _ := h.rec.Factory()()
	h.engine.runOnce(inj, cfg, kb) // running is false
	if n := len(h.rec.Events()); n != 0 {
		t.Errorf("Expected nothing injected, got %d events", n)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, fastConfig())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.engine.Run(ctx)
		close(done)
	}()

	h.device.PressButton(keys.Side1)
	deadline := time.Now().Add(time.Second)
	for !h.state.Running() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !h.state.Running() {
		t.Error("poller never started the sequence")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestShutdownReleasesEverything(t *testing.T) {
	h := newHarness(t, fastConfig())
	kb, _ := h.cfg.Snapshot().Keybinds()

	h.device.PressButton(keys.Side1)
	h.engine.Tick()
	h.engine.Shutdown(time.Second)

	if h.state.Running() || h.state.MacroEnabled() {
		t.Error("shutdown should stop and disable the macro")
	}
	for _, k := range []keys.Key{kb.Melee, kb.Jump, kb.Emote, kb.RapidClick} {
		if h.rec.Count(inputtest.KeyUp, k, 0) == 0 {
			t.Errorf("%s never released", k)
		}
	}
	for _, b := range []keys.Button{kb.Aim, kb.Fire} {
		if h.rec.Count(inputtest.ButtonUp, keys.Unknown, b) == 0 {
			t.Errorf("%s never released", b)
		}
	}
}

func TestShutdownWithoutInjector(t *testing.T) {
	h := newHarness(t, fastConfig())
	h.rec.AcquireErr = errors.New("no backend")
	h.engine.Shutdown(10 * time.Millisecond)
	if len(h.rec.Events()) != 0 {
		t.Error("nothing should be injected without an injector")
	}
}

// keyDowns returns the indices of the presses of k.
func keyDowns(ev []inputtest.Event, k keys.Key) []int {
	var out []int
	for i, e := range ev {
		if e.Kind == inputtest.KeyDown && e.Key == k {
			out = append(out, i)
		}
	}
	return out
}

func TestConfigEditAppliesFromNextIteration(t *testing.T) {
	cfg := fastConfig()
	cfg.SequenceEndDelayMs = 100
	h := newHarness(t, cfg)

	h.device.PressButton(keys.Side1)
	h.engine.Tick()
	if !h.rec.WaitFor(time.Second, func(ev []inputtest.Event) bool { return len(keyDowns(ev, keys.Space)) > 0 }) {
		t.Fatal("sequence never jumped")
	}

	h.cfg.Update(func(c *config.Config) { c.JumpKey = "K" })
	if !h.rec.WaitFor(2*time.Second, func(ev []inputtest.Event) bool { return len(keyDowns(ev, keys.K)) >= 2 }) {
		t.Fatal("new jump key never used")
	}
	h.device.ReleaseButton(keys.Side1)
	h.engine.Tick()
	h.engine.tasks.Wait()

	ev := h.rec.Events()
	firstK := keyDowns(ev, keys.K)[0]
	old := keyDowns(ev[:firstK], keys.Space)
	if len(old) < 2 || len(old)%2 != 0 {
		t.Errorf("Expected whole iterations on the old key, got %d jumps", len(old))
	}
	if n := len(keyDowns(ev[firstK:], keys.Space)); n != 0 {
		t.Errorf("old key pressed %d times after the edit took effect", n)
	}
}

func TestSequenceBurstAndEndDelays(t *testing.T) {
	cfg := fastConfig()
	cfg.RapidFireDurationMs = 30
	cfg.RapidFireClickDelayMs = 2
	cfg.SequenceEndDelayMs = 40
	cfg.LoopDelayMs = 20
	h := newHarness(t, cfg)
	kb, _ := cfg.Keybinds()

	h.device.PressButton(keys.Side1)
	h.engine.Tick()
	if !h.rec.WaitFor(2*time.Second, func(ev []inputtest.Event) bool { return len(keyDowns(ev, kb.Jump)) >= 3 }) {
		t.Fatal("second iteration never started")
	}
	h.device.ReleaseButton(keys.Side1)
	h.engine.Tick()
	h.engine.tasks.Wait()

	ev := h.rec.Events()
	next := keyDowns(ev, kb.Jump)[2]
	var firstFire, lastFire time.Time
	for _, e := range ev[:next] {
		if e.Button != kb.Fire {
			continue
		}
		if e.Kind == inputtest.ButtonDown && firstFire.IsZero() {
			firstFire = e.At
		}
		if e.Kind == inputtest.ButtonUp {
			lastFire = e.At
		}
	}
	if firstFire.IsZero() {
		t.Fatal("no rapid fire in the first iteration")
	}

	limit := cfg.RapidFireDuration()
	if burst := lastFire.Sub(firstFire); burst < limit-cfg.RapidFireClickDelay() || burst > limit+100*time.Millisecond {
		t.Errorf("rapid fire lasted %v, want about %v", burst, limit)
	}
	minGap := cfg.RapidFireClickDelay() + cfg.SequenceEndDelay() + cfg.LoopDelay()
	if gap := ev[next].At.Sub(lastFire); gap < minGap {
		t.Errorf("next iteration began %v after the burst, want >= %v", gap, minGap)
	}
}

func TestRunningNeverOutlivesFocusLoss(t *testing.T) {
	h := newHarness(t, fastConfig())
	probe := inputtest.NewProbe(true)
	mon := focus.NewMonitor(probe, h.cfg, h.state, logging.Discard())
	rng := rand.New(rand.NewPCG(7, 42))

	for step := range 2000 {
		switch rng.IntN(5) {
		case 0:
			probe.Set(rng.IntN(2) == 0)
			mon.Check()
		case 1:
			if rng.IntN(2) == 0 {
				h.device.PressButton(keys.Side1)
			} else {
				h.device.ReleaseButton(keys.Side1)
			}
		default:
			h.engine.Tick()
		}
		if !h.state.HostActive() && h.state.Running() {
			t.Fatalf("step %d: running while the host is inactive", step)
		}
	}
}

func TestRepressDuringHoldKeepsOneExecutor(t *testing.T) {
	cfg := fastConfig()
	cfg.JumpDelay = cfg.FPS * 150 // 150ms hold
	h := newHarness(t, cfg)
	kb, _ := cfg.Keybinds()

	h.device.PressButton(keys.Side1)
	h.engine.Tick()
	if !h.rec.WaitFor(time.Second, func(ev []inputtest.Event) bool { return len(ev) > 0 }) {
		t.Fatal("sequence never started")
	}

	// Release and press again inside the first jump hold.
	h.device.ReleaseButton(keys.Side1)
	h.engine.Tick()
	h.device.PressButton(keys.Side1)
	h.engine.Tick()
	if !h.state.Running() || !h.state.Executing() {
		t.Fatal("re-press should resume the running executor")
	}

	h.rec.WaitFor(2*time.Second, func(ev []inputtest.Event) bool { return len(keyDowns(ev, kb.Jump)) >= 2 })
	h.device.ReleaseButton(keys.Side1)
	h.engine.Tick()
	h.engine.tasks.Wait()

	if got := h.rec.Acquired(); got != 1 {
		t.Errorf("Expected one executor, got %d", got)
	}
	if h.state.Executing() {
		t.Error("executor slot not released")
	}

	// A second executor would interleave its own jump presses.
	down := false
	for i, e := range h.rec.Events() {
		if e.Key != kb.Jump {
			continue
		}
		switch e.Kind {
		case inputtest.KeyDown:
			if down {
				t.Fatalf("event %d: jump pressed twice without release", i)
			}
			down = true
		case inputtest.KeyUp:
			down = false
		}
	}
}
