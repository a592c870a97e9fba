package environment

// Subset is the minimal key->value mapping an operation actually read,
// captured by a Recorder. Cached results store their Subset so later passes
// can revalidate against only the keys the computation depended on, instead
// of comparing whole environments.
type Subset struct {
	values map[Key]any
}

// Len returns the number of recorded keys.
func (s Subset) Len() int {
	return len(s.values)
}

// Contains reports whether the key was read during the recorded operation.
func (s Subset) Contains(key Key) bool {
	_, ok := s.values[key]
	return ok
}

// MatchesRead reports whether every recorded key still resolves to an equal
// value in the given environment. An empty subset matches any environment:
// a computation that read nothing can never be invalidated by the
// environment.
func (s Subset) MatchesRead(env Environment) bool {
	for key, recorded := range s.values {
		if !ValuesEqual(recorded, env.peek(key)) {
			return false
		}
	}
	return true
}

// Recorder captures the dependency subset of a single operation. Obtain a
// subscribed environment with Environment(), run the operation against it,
// then collect the keys it read with Subset().
type Recorder struct {
	base Environment
	seen map[Key]any
}

// NewRecorder wraps the given environment for dependency recording.
func NewRecorder(base Environment) *Recorder {
	return &Recorder{base: base}
}

// Environment returns the wrapped environment whose reads are recorded.
func (r *Recorder) Environment() Environment {
	return r.base.Subscribed(func(key Key) {
		if r.seen == nil {
			r.seen = make(map[Key]any)
		}
		if _, ok := r.seen[key]; !ok {
			r.seen[key] = r.base.peek(key)
		}
	})
}

// Subset returns the keys read so far, with the values they resolved to at
// recording time.
func (r *Recorder) Subset() Subset {
	return Subset{values: r.seen}
}
