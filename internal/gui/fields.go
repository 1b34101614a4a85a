package gui

import (
	"fmt"
	"strconv"
	"strings"

	"contagion/internal/config"
)

// field is one editable timing parameter.
type field struct {
	label string
	get   func(config.Config) string
	set   func(*config.Config, string) error
}

func uintField(label string, ptr func(*config.Config) *uint64) field {
	return field{
		label: label,
		get: func(c config.Config) string {
			return strconv.FormatUint(*ptr(&c), 10)
		},
		set: func(c *config.Config, s string) error {
			v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return fmt.Errorf("%s: %q is not a whole number of milliseconds", label, s)
			}
			*ptr(c) = v
			return nil
		},
	}
}

func floatField(label string, ptr func(*config.Config) *float64) field {
	return field{
		label: label,
		get: func(c config.Config) string {
			return strconv.FormatFloat(*ptr(&c), 'f', -1, 64)
		},
		set: func(c *config.Config, s string) error {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return fmt.Errorf("%s: %q is not a number", label, s)
			}
			*ptr(c) = v
			return nil
		},
	}
}

var timingFields = []field{
	floatField("FPS", func(c *config.Config) *float64 { return &c.FPS }),
	floatField("Jump delay", func(c *config.Config) *float64 { return &c.JumpDelay }),
	uintField("Aim to melee (ms)", func(c *config.Config) *uint64 { return &c.AimMeleeDelayMs }),
	uintField("Melee hold (ms)", func(c *config.Config) *uint64 { return &c.MeleeHoldTimeMs }),
	uintField("Emote delay, manual (ms)", func(c *config.Config) *uint64 { return &c.EmotePreparationDelayMs }),
	uintField("Rapid fire duration (ms)", func(c *config.Config) *uint64 { return &c.RapidFireDurationMs }),
	uintField("Rapid fire click delay (ms)", func(c *config.Config) *uint64 { return &c.RapidFireClickDelayMs }),
	uintField("Sequence end delay (ms)", func(c *config.Config) *uint64 { return &c.SequenceEndDelayMs }),
	uintField("Loop delay (ms)", func(c *config.Config) *uint64 { return &c.LoopDelayMs }),
	{
		label: "Rapid click count",
		get:   func(c config.Config) string { return strconv.Itoa(c.RapidClickCount) },
		set: func(c *config.Config, s string) error {
			v, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("rapid click count: %q is not a whole number", s)
			}
			c.RapidClickCount = v
			return nil
		},
	},
	uintField("Rapid click delay (ms)", func(c *config.Config) *uint64 { return &c.RapidClickDelayMs }),
}

// applyFields parses values, one per timing field, over cfg and validates
// the result. cfg is left untouched on error.
func applyFields(cfg config.Config, values []string, useFormula bool) (config.Config, error) {
	if len(values) != len(timingFields) {
		return cfg, fmt.Errorf("expected %d values, got %d", len(timingFields), len(values))
	}
	next := cfg
	for i, f := range timingFields {
		if err := f.set(&next, values[i]); err != nil {
			return cfg, err
		}
	}
	next.UseEmoteFormula = useFormula
	if err := next.Validate(); err != nil {
		return cfg, err
	}
	return next, nil
}

// derivedText shows the delays computed from the timing fields.
func derivedText(cfg config.Config) string {
	mode := "manual"
	if cfg.UseEmoteFormula {
		mode = "formula"
	}
	return fmt.Sprintf("Double jump hold: %.3f ms   Emote delay: %d ms (%s)",
		float64(cfg.DoubleJumpDelay().Microseconds())/1000,
		cfg.EmotePreparationDelay().Milliseconds(), mode)
}
