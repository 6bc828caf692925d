package metadata

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/habiliai/recallhub/entity"
	"github.com/samber/lo"
)

// StructuredKeys are decoded back from their string encoding on retrieval.
var StructuredKeys = []string{entity.KeyMedia, entity.KeyTasks}

// Encode returns a copy of m holding only scalar values: strings, booleans
// and numbers are kept, nil values are dropped, anything else is replaced by
// its JSON encoding. Keys are passed through NormalizeKey; a key that
// normalizes to nothing is dropped, and one that collides with a key
// already in m loses to it.
func Encode(m map[string]any) map[string]any {
	keys := lo.Keys(m)
	slices.Sort(keys)

	out := make(map[string]any, len(m))
	for _, k := range keys {
		v := m[k]
		if v == nil {
			continue
		}
		key := NormalizeKey(k)
		if key == "" {
			continue
		}
		if key != k {
			if _, taken := m[key]; taken {
				continue
			}
			if _, taken := out[key]; taken {
				continue
			}
		}
		if entity.IsScalar(v) {
			out[key] = v
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			continue
		}
		out[key] = string(b)
	}
	return out
}

// NormalizeKey turns k into a filterable metadata key. Keys made only of
// [A-Za-z0-9_] are returned as they are; otherwise every run of other
// characters becomes a single underscore and leading or trailing
// underscores are trimmed, so "reading time" becomes "reading_time".
func NormalizeKey(k string) string {
	if strings.IndexFunc(k, func(r rune) bool { return !isKeyRune(r) }) < 0 {
		return k
	}

	var b strings.Builder
	b.Grow(len(k))
	pending := false
	for _, r := range k {
		if !isKeyRune(r) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte('_')
		}
		pending = false
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "_")
}

func isKeyRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// Decode returns a copy of m with the StructuredKeys parsed back from JSON.
// Values that do not parse are left as they are.
func Decode(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}

	for _, k := range StructuredKeys {
		s, ok := out[k].(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, "[") && !strings.HasPrefix(s, "{") {
			continue
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			out[k] = decoded
		}
	}

	return out
}
