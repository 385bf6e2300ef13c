package config

import (
	"fmt"
	"math"
)

// Parameter maps come from JSON (numbers are float64) or from Go code (ints),
// so the readers accept both.

func floatParam(params map[string]interface{}, key string, def float64) (float64, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("parameter %q must be a number, got %T", key, raw)
	}
}

func intParam(params map[string]interface{}, key string, def int) (int, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("parameter %q must be an integer, got %v", key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("parameter %q must be an integer, got %T", key, raw)
	}
}

func boolParam(params map[string]interface{}, key string, def bool) (bool, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %q must be a boolean, got %T", key, raw)
	}
	return v, nil
}

// mergeParams overlays params on the defaults of a strategy
func mergeParams(defaults, params map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(defaults)+len(params))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}
