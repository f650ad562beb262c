package persist

// Persister binds a codec to one state type.
type Persister[T any] struct {
	codec Codec
}

// NewPersister creates a persister for T using codec.
func NewPersister[T any](codec Codec) *Persister[T] {
	return &Persister[T]{codec: codec}
}

// Save writes state under dir/basename.
func (p *Persister[T]) Save(dir, basename string, state *T) error {
	return SaveState(dir, basename, p.codec, state)
}

// Load reads the state stored under dir/basename.
func (p *Persister[T]) Load(dir, basename string) (*T, error) {
	var state T

	err := LoadState(dir, basename, p.codec, &state)
	if err != nil {
		return nil, err
	}

	return &state, nil
}

// List returns the basenames stored in dir.
func (p *Persister[T]) List(dir string) ([]string, error) {
	return Basenames(dir, p.codec)
}
