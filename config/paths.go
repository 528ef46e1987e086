package config

import (
	"os"
	"path/filepath"
)

// PathsConfig locates the files exchanged between stages. Relative paths
// are resolved against Root.
type PathsConfig struct {
	Root        string `json:"root"`
	Cleaned     string `json:"cleaned"`
	Zones       string `json:"zones"`
	Featured    string `json:"featured"`
	Model       string `json:"model"`
	Predictions string `json:"predictions"`
}

// SetDefaults applies the fixed project layout.
func (p *PathsConfig) SetDefaults() {
	if p.Cleaned == "" {
		p.Cleaned = filepath.Join("data", "cleaned_data.csv")
	}
	if p.Zones == "" {
		p.Zones = filepath.Join("data", "taxi_zone_lookup.csv")
	}
	if p.Featured == "" {
		p.Featured = filepath.Join("data", "featured_data.csv")
	}
	if p.Model == "" {
		p.Model = filepath.Join("data", "model.gob")
	}
	if p.Predictions == "" {
		p.Predictions = filepath.Join("data", "predictions")
	}
}

// Resolve returns a copy with every path made absolute. root overrides
// Root when set; with neither, the working directory is used.
func (p PathsConfig) Resolve(root string) (PathsConfig, error) {
	if root == "" {
		root = p.Root
	}
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return p, err
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return p, err
	}
	out := PathsConfig{Root: root}
	out.Cleaned = Under(root, p.Cleaned)
	out.Zones = Under(root, p.Zones)
	out.Featured = Under(root, p.Featured)
	out.Model = Under(root, p.Model)
	out.Predictions = Under(root, p.Predictions)
	return out, nil
}

// Under joins a relative path to root and leaves absolute paths untouched.
func Under(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
