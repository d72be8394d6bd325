package agent

import (
	"time"

	"github.com/hupe1980/computeruse/core"
)

// cloneArgs copies a requested argument map so hook rewrites never mutate
// the transcript's view of the original request.
func cloneArgs(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// numArg extracts an integer-valued argument, tolerating the float64 values
// JSON decoding produces.
func numArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func intArg(args map[string]any, key string, fallback int) int {
	if v, ok := numArg(args, key); ok {
		return v
	}
	return fallback
}

func strArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// durationArg reads a seconds-valued number into a time.Duration.
func durationArg(args map[string]any, key string, fallback time.Duration) time.Duration {
	switch v := args[key].(type) {
	case float64:
		return time.Duration(v * float64(time.Second))
	case int:
		return time.Duration(v) * time.Second
	}
	return fallback
}

// regionArg parses an optional region object ({x, y, width, height}).
func regionArg(args map[string]any, key string) *core.Region {
	m, ok := args[key].(map[string]any)
	if !ok {
		return nil
	}
	return &core.Region{
		X:      intArg(m, "x", 0),
		Y:      intArg(m, "y", 0),
		Width:  intArg(m, "width", 0),
		Height: intArg(m, "height", 0),
	}
}
