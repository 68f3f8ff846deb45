package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/voxelsplace/hypersponge/api"
	"github.com/voxelsplace/hypersponge/config"
	"github.com/voxelsplace/hypersponge/monitoring"
	"github.com/voxelsplace/hypersponge/sponge"
	"github.com/voxelsplace/hypersponge/vopl"
)

// Output file names inside the output directory.
const (
	PackFile     = "slices.voplpack"
	SlicesDir    = "slices"
	GLBFile      = "slices.glb"
	GIFFile      = "slices.gif"
	HTMLFile     = "slices.html"
	PlotFile     = "density.png"
	ManifestFile = "manifest.yaml"
	DeltasDir    = "deltas"
)

// Result is what a generate run produced.
type Result struct {
	Sequence *sponge.Sequence
	Outputs  []string
	Manifest *Manifest
}

// RunGenerate validates cfg, computes the configured slice sequence and
// writes every requested output format into cfg.Output.Dir. The manifest, when wanted,
// is written last and lists the other outputs.
func RunGenerate(cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := monitoring.Logger()
	m, err := cfg.SpongeMethod()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	seq, err := cfg.Generator(log).Generate(cfg.Level, m, cfg.Frames)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"level":      cfg.Level,
		"method":     m.Name(),
		"frames":     len(seq.Frames),
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("slices generated")

	dir := cfg.Output.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	res := &Result{Sequence: seq}

	var grids []*vopl.VoxelGrid
	if cfg.WantsGrids() {
		if grids, err = api.SequenceGrids(seq); err != nil {
			return nil, err
		}
	}

	steps := []struct {
		format string
		path   string
		write  func(path string) error
	}{
		{config.FormatVOPLPack, PackFile, func(p string) error {
			layout, comp := cfg.PackOptions()
			data, err := api.GridsToPack(grids, layout, comp)
			if err != nil {
				return err
			}
			return os.WriteFile(p, data, 0o644)
		}},
		{config.FormatVOPL, SlicesDir, func(p string) error { return writeSlices(grids, p) }},
		{config.FormatGLB, GLBFile, func(p string) error {
			names := make([]string, len(grids))
			for i := range grids {
				names[i] = api.FrameName(i)
			}
			data, err := api.GridsToGLB(names, grids)
			if err != nil {
				return err
			}
			return os.WriteFile(p, data, 0o644)
		}},
		{config.FormatGIF, GIFFile, func(p string) error { return SaveAnimatedGIF(grids, p, cfg.Output.GIFDelay) }},
		{config.FormatHTML, HTMLFile, func(p string) error { return SaveScatterPage(seq, p) }},
		{config.FormatPlot, PlotFile, func(p string) error { return SaveDensityPlot(seq, p) }},
		{config.FormatDeltas, DeltasDir, func(p string) error {
			_, err := WriteDeltas(grids, p)
			return err
		}},
	}
	for _, s := range steps {
		if !cfg.Wants(s.format) {
			continue
		}
		path := filepath.Join(dir, s.path)
		if err := s.write(path); err != nil {
			return nil, fmt.Errorf("write %s: %w", s.format, err)
		}
		log.WithField("format", s.format).Infof("wrote %s", path)
		res.Outputs = append(res.Outputs, path)
	}

	if cfg.Wants(config.FormatManifest) {
		path := filepath.Join(dir, ManifestFile)
		res.Manifest = NewManifest(seq, cfg)
		res.Manifest.Outputs = res.Outputs
		if err := WriteManifest(res.Manifest, path); err != nil {
			return nil, fmt.Errorf("write manifest: %w", err)
		}
		log.WithField("run_id", res.Manifest.RunID).Infof("wrote %s", path)
		res.Outputs = append(res.Outputs, path)
	}
	return res, nil
}

func writeSlices(grids []*vopl.VoxelGrid, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var g errgroup.Group
	for i, grid := range grids {
		g.Go(func() error { return vopl.Save(grid, filepath.Join(dir, api.FrameName(i))) })
	}
	return g.Wait()
}
