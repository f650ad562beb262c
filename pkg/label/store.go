package label

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/coality/pkg/persist"
)

const (
	manifestName  = "manifest"
	modelsDirPerm = 0o755
)

// manifest records which backend wrote a models directory.
type manifest struct {
	Backend string   `json:"backend"`
	Labels  []string `json:"labels"`
}

var manifests = persist.NewPersister[manifest](persist.NewJSONCodec())

// SaveEnsemble writes one <label>.model file per member plus a manifest.
func SaveEnsemble(dir, backend string, e *Ensemble) error {
	codec := persist.NewModelCodec()

	for _, m := range e.members {
		err := saveMember(dir, codec.Extension(), m)
		if err != nil {
			return err
		}
	}

	err := manifests.Save(dir, manifestName, &manifest{Backend: backend, Labels: e.Labels()})
	if err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}

	return nil
}

func saveMember(dir, ext string, c Classifier) error {
	err := os.MkdirAll(dir, modelsDirPerm)
	if err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, c.Label()+ext))
	if err != nil {
		return fmt.Errorf("create model %s: %w", c.Label(), err)
	}
	defer f.Close()

	err = c.Save(f)
	if err != nil {
		return fmt.Errorf("save model %s: %w", c.Label(), err)
	}

	return nil
}

// LoadEnsemble loads every *.model file in dir. The backend recorded in the
// directory manifest takes precedence over the given one. A missing
// directory or one without models yields ErrModelsUnavailable.
func LoadEnsemble(dir, backend string) (*Ensemble, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelsUnavailable, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrModelsUnavailable, dir)
	}

	m, err := manifests.Load(dir, manifestName)
	if err == nil && m.Backend != "" {
		backend = m.Backend
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	b, err := LookupBackend(backend)
	if err != nil {
		return nil, err
	}

	codec := persist.NewModelCodec()

	names, err := persist.Basenames(dir, codec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelsUnavailable, err)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", ErrModelsUnavailable, codec.Extension(), dir)
	}

	members := make([]Classifier, 0, len(names))

	for _, name := range names {
		c, loadErr := loadMember(filepath.Join(dir, name+codec.Extension()), b)
		if loadErr != nil {
			return nil, loadErr
		}

		members = append(members, c)
	}

	return NewEnsemble(members...), nil
}

func loadMember(path string, b Backend) (Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	c, err := b.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", filepath.Base(path), err)
	}

	return c, nil
}
