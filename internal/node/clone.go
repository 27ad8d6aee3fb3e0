package node

// Clone returns a deep copy of v. Containers are copied recursively;
// scalars are returned as they are.
func Clone(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return t
		}
		out := NewObject()
		for _, e := range t.Entries() {
			out.Set(e.Key, Clone(e.Value))
		}
		return out
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Clone(val)
		}
		return out
	case *Map:
		if t == nil {
			return t
		}
		out := NewMap()
		for _, e := range t.Entries() {
			out.Set(Clone(e.Key), Clone(e.Value))
		}
		return out
	case *Set:
		if t == nil {
			return t
		}
		items := t.Values()
		for i, item := range items {
			items[i] = Clone(item)
		}
		return NewSet(items...)
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}
