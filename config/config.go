// Package config loads the flat named options that configure materials and
// kernels from a YAML file.
package config

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrOption marks a missing or mistyped option
var ErrOption = errors.New("invalid option")

// File is the parsed content of a configuration file
type File struct {
	Materials []Block `yaml:"materials"`
	Kernels   []Block `yaml:"kernels"`
}

// Block configures one material or kernel
type Block struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Options Options `yaml:"options"`
}

// Validate checks that the block is named and typed
func (b Block) Validate() error {
	if b.Name == "" {
		return errors.Newf("block of type %q has no name", b.Type)
	}
	if b.Type == "" {
		return errors.Newf("block %q has no type", b.Name)
	}
	return nil
}

// LoadFile reads and validates the configuration file at path
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening config %s", path)
	}
	defer f.Close()
	cfg, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading config %s", path)
	}
	return cfg, nil
}

// Load decodes and validates a configuration from r
func Load(r io.Reader) (*File, error) {
	var cfg File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every block and rejects duplicate names
func (f *File) Validate() error {
	seen := make(map[string]bool)
	for _, blocks := range [][]Block{f.Materials, f.Kernels} {
		for _, b := range blocks {
			if err := b.Validate(); err != nil {
				return err
			}
			if seen[b.Name] {
				return errors.Newf("duplicate block name %q", b.Name)
			}
			seen[b.Name] = true
		}
	}
	return nil
}
