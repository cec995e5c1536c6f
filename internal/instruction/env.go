package instruction

// Env is an insertion-ordered string map. Setting an existing key replaces
// its value and keeps its original position.
type Env struct {
	keys   []string
	values map[string]string
}

// NewEnv builds an Env from name/value pairs, applying them in order.
func NewEnv(pairs ...[2]string) Env {
	var env Env
	for _, pair := range pairs {
		env.Set(pair[0], pair[1])
	}
	return env
}

// Set stores value under name.
func (e *Env) Set(name, value string) {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, exists := e.values[name]; !exists {
		e.keys = append(e.keys, name)
	}
	e.values[name] = value
}

// Get returns the value stored under name.
func (e Env) Get(name string) (string, bool) {
	value, ok := e.values[name]
	return value, ok
}

// Keys returns the names in insertion order.
func (e Env) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Len returns the number of entries.
func (e Env) Len() int {
	return len(e.keys)
}

// Pairs returns the entries in insertion order.
func (e Env) Pairs() [][2]string {
	out := make([][2]string, 0, len(e.keys))
	for _, key := range e.keys {
		out = append(out, [2]string{key, e.values[key]})
	}
	return out
}

func (e Env) clone() Env {
	return NewEnv(e.Pairs()...)
}
