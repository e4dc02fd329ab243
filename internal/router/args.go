package router

import "math"

// Kind is the type a schema field must carry in the argument bundle.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindNumber
	KindStringMap
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindNumber:
		return "number"
	case KindStringMap:
		return "map[string]string"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// check reports whether v satisfies the kind.
func (k Kind) check(v any) bool {
	var ok bool
	switch k {
	case KindString:
		_, ok = v.(string)
	case KindBool:
		_, ok = v.(bool)
	case KindInt:
		_, ok = toInt(v)
	case KindNumber:
		_, ok = toFloat(v)
	case KindStringMap:
		_, ok = toStringMap(v)
	case KindMap:
		_, ok = toMap(v)
	}
	return ok
}

// Arg helpers. Required fields are checked against the schema before a
// command is decoded, so decoders can rely on the ok results.

func getString(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

func getStringDefault(m map[string]any, key string, def string) string {
	if s, ok := getString(m, key); ok {
		return s
	}
	return def
}

func getOptionalString(m map[string]any, key string) *string {
	if s, ok := getString(m, key); ok {
		return &s
	}
	return nil
}

func getBool(m map[string]any, key string) (bool, bool) {
	b, ok := m[key].(bool)
	return b, ok
}

func getBoolDefault(m map[string]any, key string, def bool) bool {
	if b, ok := getBool(m, key); ok {
		return b
	}
	return def
}

func getInt(m map[string]any, key string) (int, bool) {
	return toInt(m[key])
}

func getFloat(m map[string]any, key string) (float64, bool) {
	return toFloat(m[key])
}

// getStringMap returns nil when the key is absent or holds a non-string value.
func getStringMap(m map[string]any, key string) map[string]string {
	out, _ := toStringMap(m[key])
	return out
}

func getMap(m map[string]any, key string) map[string]any {
	out, _ := toMap(m[key])
	return out
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int8:
		return int(t), true
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, false
		}
		return int(t), true
	case uint8:
		return int(t), true
	case uint16:
		return int(t), true
	case uint32:
		return int(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int(t), true
	case float32:
		return floatToInt(float64(t))
	case float64:
		return floatToInt(t)
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int(f), true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

func toStringMap(v any) (map[string]string, bool) {
	switch t := v.(type) {
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, true
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, it := range t {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func toMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}
