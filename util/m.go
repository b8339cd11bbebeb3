package util

// M carries log params, error params and the loose maps decoded into
// instances as overrides.
type M map[string]any

// MGet reads key as T, false when missing or of another type.
func MGet[T any](m M, key string) (T, bool) {
	v, ok := m[key].(T)
	return v, ok
}

func (m M) ToJson() ([]byte, *Err) {
	return JsonMarshal(m)
}

func (m M) Copy() M {
	n := make(M, len(m))
	m.CopyTo(n)
	return n
}

func (m M) CopyTo(n M) {
	for k, v := range m {
		n[k] = v
	}
}

// Merge returns a copy of m overlaid with every map in others, later maps winning.
func (m M) Merge(others ...M) M {
	n := m.Copy()
	for _, o := range others {
		o.CopyTo(n)
	}
	return n
}
