// Package features builds and queries the feature index.
package features

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/segstat/internal/model"
)

// ParseKey decodes the canonical key encoding produced by FeatureKey.String.
func ParseKey(s string) (model.FeatureKey, error) {
	if len(s) < 2 {
		return model.FeatureKey{}, fmt.Errorf("feature key too short: %q", s)
	}
	switch s[0] {
	case 'e':
		class := model.FrequencyClass(s[1])
		if class != model.ClassLow && class != model.ClassHigh {
			return model.FeatureKey{}, fmt.Errorf("unknown frequency class %q in key %q", s[1], s)
		}
		return model.EventKey(class, s[2:]), nil
	case 'p':
		name, value, ok := strings.Cut(s[1:], ":")
		if !ok {
			return model.FeatureKey{}, fmt.Errorf("property key without delimiter: %q", s)
		}
		return model.PropertyKey(name, value), nil
	default:
		return model.FeatureKey{}, fmt.Errorf("unknown feature key type %q", s[0])
	}
}

// DisplayValue strips the type and class tags: event name or property value.
func DisplayValue(k model.FeatureKey) string {
	if k.Kind == model.KindEvent {
		return k.Name
	}
	return k.Value
}

// DisplayLabel is DisplayValue plus the frequency class for events.
func DisplayLabel(k model.FeatureKey) string {
	if k.Kind != model.KindEvent {
		return k.Value
	}
	if k.Class == model.ClassHigh {
		return k.Name + " (frequent)"
	}
	return k.Name + " (occasional)"
}
