package domain

import (
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

var unmarshalerType = reflect.TypeOf((*yaml.Unmarshaler)(nil)).Elem()

// pruneMismatched removes from a mapping node every known key whose value
// cannot be decoded into the field it targets, so the field stays unset
// instead of becoming an explicit zero. Nested settings objects are pruned
// key by key.
func pruneMismatched(node *yaml.Node, t reflect.Type) {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return
	}
	fields := yamlFields(t)

	kept := node.Content[:0]
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		ft, known := fields[key.Value]
		if known && !fits(val, ft) {
			continue
		}
		kept = append(kept, key, val)
	}
	node.Content = kept
}

// fits reports whether val decodes into a value of type t, pruning nested
// mappings first.
func fits(val *yaml.Node, t reflect.Type) bool {
	if t.Kind() == reflect.Struct && !reflect.PointerTo(t).Implements(unmarshalerType) {
		if val.Kind != yaml.MappingNode {
			return false
		}
		pruneMismatched(val, t)
	}
	return val.Decode(reflect.New(t).Interface()) == nil
}

// yamlFields maps yaml keys to field types, flattening inline structs.
func yamlFields(t reflect.Type) map[string]reflect.Type {
	out := make(map[string]reflect.Type)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("yaml")
		name, opts, _ := strings.Cut(tag, ",")
		if strings.Contains(opts, "inline") {
			for k, v := range yamlFields(f.Type) {
				out[k] = v
			}
			continue
		}
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		out[name] = f.Type
	}
	return out
}
