package conflict

import (
	"reflect"
	"sort"

	"github.com/ariel-frischer/ccem/internal/project"
)

// KeyValues records disagreement about one key across projects.
type KeyValues struct {
	// Path is the dotted location of the key ("settings.theme",
	// "integrations.github").
	Path string
	// Values holds the distinct values observed, in the order first
	// encountered while iterating projects.
	Values []any
	// All holds one value per defining project, duplicates included,
	// in project order.
	All []any
	// Projects lists every project index that defines the key, not only
	// the dissenting ones.
	Projects []int
}

// SettingConflicts returns every settings key defined with more than one
// distinct value across the given configs. Keys are collected by recursive
// descent into nested maps; arrays are treated as leaf values. Output order
// follows first appearance of each key across the project iteration.
func SettingConflicts(configs []project.Config) []KeyValues {
	flat := make([]map[string]any, len(configs))
	var keys []string
	seen := map[string]struct{}{}
	for i, cfg := range configs {
		flat[i] = flattenSettings(cfg.Settings)
		for _, key := range flattenedKeys(cfg.Settings) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	var out []KeyValues
	for _, key := range keys {
		kv := KeyValues{Path: "settings." + key}
		for i := range configs {
			value, ok := flat[i][key]
			if !ok {
				continue
			}
			kv.Projects = append(kv.Projects, i)
			kv.All = append(kv.All, value)
			if !containsValue(kv.Values, value) {
				kv.Values = append(kv.Values, value)
			}
		}
		if len(kv.Values) > 1 {
			out = append(out, kv)
		}
	}
	return out
}

// IntegrationConflicts returns every integration name defined by more than
// one config whose records are not all deeply equal.
func IntegrationConflicts(configs []project.Config) []KeyValues {
	var names []string
	seen := map[string]struct{}{}
	for _, cfg := range configs {
		for _, name := range sortedKeys(cfg.Integrations) {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	var out []KeyValues
	for _, name := range names {
		kv := KeyValues{Path: "integrations." + name}
		for i, cfg := range configs {
			record, ok := cfg.Integrations[name]
			if !ok {
				continue
			}
			kv.Projects = append(kv.Projects, i)
			kv.All = append(kv.All, record)
			if !containsValue(kv.Values, record) {
				kv.Values = append(kv.Values, record)
			}
		}
		if len(kv.Projects) > 1 && len(kv.Values) > 1 {
			out = append(out, kv)
		}
	}
	return out
}

// flattenSettings maps every reachable dotted key to its leaf value.
// Nested maps are descended; arrays and all other values are leaves.
func flattenSettings(settings map[string]any) map[string]any {
	out := map[string]any{}
	flattenInto(out, "", settings)
	return out
}

func flattenInto(out map[string]any, prefix string, node map[string]any) {
	for key, value := range node {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := value.(map[string]any); ok {
			flattenInto(out, path, child)
			continue
		}
		out[path] = value
	}
}

// flattenedKeys returns the dotted leaf keys of a settings map in a
// deterministic (sorted per nesting level) order.
func flattenedKeys(settings map[string]any) []string {
	flat := flattenSettings(settings)
	return sortedKeys(flat)
}

// containsValue reports whether values already holds a deep-equal entry.
// Deep equality avoids the false conflicts that serialized comparison
// produces when object keys differ only in order.
func containsValue(values []any, value any) bool {
	for _, v := range values {
		if reflect.DeepEqual(v, value) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
