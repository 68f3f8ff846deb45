package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/voxelsplace/hypersponge/config"
	"github.com/voxelsplace/hypersponge/sponge"
)

// Manifest describes one generate run.
type Manifest struct {
	RunID      string          `yaml:"run_id"`
	Created    string          `yaml:"created"`
	Level      int             `yaml:"level"`
	Method     string          `yaml:"method"`
	Resolution int             `yaml:"resolution,omitempty"`
	Side       int             `yaml:"side"`
	MeanFill   float64         `yaml:"mean_fill"`
	Frames     []ManifestFrame `yaml:"frames"`
	Outputs    []string        `yaml:"outputs"`
	Config     *config.Config  `yaml:"config,omitempty"`
}

type ManifestFrame struct {
	Index    int     `yaml:"index"`
	Title    string  `yaml:"title"`
	W        float64 `yaml:"w"`
	Exact    string  `yaml:"exact,omitempty"`
	Slice    *int    `yaml:"slice_index,omitempty"`
	Occupied int     `yaml:"occupied"`
	Fill     float64 `yaml:"fill"`
	Digest   string  `yaml:"digest"`
}

// SliceDigest hashes the occupancy of cs, one byte per cell.
func SliceDigest(cs *sponge.CrossSection) string {
	cells := cs.Cells()
	b := make([]byte, len(cells))
	for i, v := range cells {
		if v {
			b[i] = 1
		}
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}

// NewManifest summarises seq under a fresh run id.
func NewManifest(seq *sponge.Sequence, cfg *config.Config) *Manifest {
	m := &Manifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC().Format(time.RFC3339),
		Level:   seq.Level,
		Method:  seq.Method.Name(),
		Config:  cfg,
	}
	if r, ok := seq.Method.(sponge.Rational); ok {
		m.Resolution = r.Resolution
	}
	if len(seq.Frames) > 0 {
		m.Side = seq.Frames[0].Slice.Side
	}
	m.MeanFill = SequenceDensity(seq).Mean()
	for i, f := range seq.Frames {
		mf := ManifestFrame{
			Index:    i,
			Title:    f.Label.String(),
			W:        f.Label.W,
			Occupied: f.Slice.Count(),
			Fill:     f.Slice.Fill(),
			Digest:   SliceDigest(f.Slice),
		}
		if f.Label.Index >= 0 {
			idx := f.Label.Index
			mf.Slice = &idx
		} else {
			mf.Exact = f.Label.Exact.String()
		}
		m.Frames = append(m.Frames, mf)
	}
	return m
}

func WriteManifest(m *Manifest, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}
