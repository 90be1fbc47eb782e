package minigame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KnobType enumerates the supported knob value kinds.
type KnobType string

const (
	KnobNumber KnobType = "number"
	KnobToggle KnobType = "toggle"
	KnobSelect KnobType = "select"
)

// Knob is one named, typed, bounded configuration parameter exposed by a
// mini-game definition. DM tooling writes knob values into deployment
// payloads; engines read them back through a resolved Config.
type Knob struct {
	Key          string   `json:"key"`
	Label        string   `json:"label"`
	Type         KnobType `json:"type"`
	Min          float64  `json:"min,omitempty"`
	Max          float64  `json:"max,omitempty"`
	Default      any      `json:"default"`
	Options      []string `json:"options,omitempty"`
	PlayerFacing bool     `json:"playerFacing,omitempty"`
}

// Validate checks internal consistency of a knob declaration.
func (k Knob) Validate() error {
	if k.Key == "" {
		return fmt.Errorf("knob missing key")
	}
	switch k.Type {
	case KnobNumber:
		if k.Max < k.Min {
			return fmt.Errorf("knob %s: max %v below min %v", k.Key, k.Max, k.Min)
		}
	case KnobToggle:
	case KnobSelect:
		if len(k.Options) == 0 {
			return fmt.Errorf("knob %s: select without options", k.Key)
		}
	default:
		return fmt.Errorf("knob %s: unknown type %q", k.Key, k.Type)
	}
	return nil
}

// Config holds resolved knob values for one mission attempt.
type Config map[string]any

// ResolveConfig merges raw deployment values over knob defaults. Upstream
// values are never trusted: numbers are coerced and clamped into [Min,Max],
// toggles coerced to bool, selects checked against the option list. Anything
// unusable falls back to the knob default.
func (d *Definition) ResolveConfig(raw map[string]any) Config {
	cfg := make(Config, len(d.Knobs))
	for _, k := range d.Knobs {
		val, present := raw[k.Key]
		switch k.Type {
		case KnobNumber:
			n, ok := toNumber(val)
			if !present || !ok {
				n, _ = toNumber(k.Default)
			}
			cfg[k.Key] = Clamp(n, k.Min, k.Max)
		case KnobToggle:
			b, ok := toBool(val)
			if !present || !ok {
				b, _ = toBool(k.Default)
			}
			cfg[k.Key] = b
		case KnobSelect:
			s, ok := toChoice(val, k.Options)
			if !present || !ok {
				s, _ = toChoice(k.Default, k.Options)
			}
			cfg[k.Key] = s
		}
	}
	return cfg
}

// Number reads a numeric knob value, zero when absent.
func (c Config) Number(key string) float64 {
	if v, ok := c[key]; ok {
		if n, ok := toNumber(v); ok {
			return n
		}
	}
	return 0
}

// Int reads a numeric knob value rounded to the nearest integer.
func (c Config) Int(key string) int {
	return int(math.Round(c.Number(key)))
}

// Bool reads a toggle knob value, false when absent.
func (c Config) Bool(key string) bool {
	if v, ok := c[key]; ok {
		if b, ok := toBool(v); ok {
			return b
		}
	}
	return false
}

// Choice reads a select knob value, empty when absent.
func (c Config) Choice(key string) string {
	if v, ok := c[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt bounds v into [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "on", "1":
			return true, true
		case "false", "no", "off", "0":
			return false, true
		}
	case float64:
		return b != 0, true
	}
	return false, false
}

func toChoice(v any, options []string) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	for _, opt := range options {
		if strings.EqualFold(opt, s) {
			return opt, true
		}
	}
	return "", false
}
