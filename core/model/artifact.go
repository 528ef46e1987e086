package model

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func init() {
	gob.Register(&LinearRegression{})
	gob.Register(&RandomForest{})
}

// Trained couples a fitted regressor with the feature column order it was
// fitted on. It is the unit persisted by the trainer and loaded by the batch
// predictor.
type Trained struct {
	Features  []string
	Regressor Regressor
}

// Save writes the artifact to path, creating parent directories and
// replacing any previous model.
func (t *Trained) Save(path string) (err error) {
	if t.Regressor == nil {
		return errors.New("model: nothing to save")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err = gob.NewEncoder(tmp).Encode(t); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode model: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads an artifact written by Save.
func Load(path string) (*Trained, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var t Trained
	if err := gob.NewDecoder(f).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if t.Regressor == nil {
		return nil, fmt.Errorf("decode model %s: %w", path, ErrNotFitted)
	}
	return &t, nil
}
