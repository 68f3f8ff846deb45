package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/voxelsplace/hypersponge/api"
	"github.com/voxelsplace/hypersponge/monitoring"
	"github.com/voxelsplace/hypersponge/vopl"
)

// DeltaName is the file name of the delta that produces frame i.
func DeltaName(i int) string { return fmt.Sprintf("frame_%03d.vdelta", i) }

// WriteDeltas stores one delta file per frame in dir: frame 0 from an empty
// grid, then each change to the next frame.
func WriteDeltas(grids []*vopl.VoxelGrid, dir string) ([]string, error) {
	deltas, err := vopl.DeltaStream(grids)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, len(deltas))
	var g errgroup.Group
	for i, d := range deltas {
		paths[i] = filepath.Join(dir, DeltaName(i))
		g.Go(func() error { return os.WriteFile(paths[i], d, 0o644) })
	}
	return paths, g.Wait()
}

// RunPack2Deltas turns a .voplpack into a delta stream directory.
func RunPack2Deltas(packPath, outDir string) error {
	data, err := os.ReadFile(packPath)
	if err != nil {
		return err
	}
	_, grids, err := api.PackGrids(data)
	if err != nil {
		return err
	}
	paths, err := WriteDeltas(grids, outDir)
	if err != nil {
		return err
	}
	monitoring.Logger().WithField("frames", len(paths)).Infof("deltas written to %s", outDir)
	return nil
}

// RunUpdateVOPL applies a delta to inputPath and writes the result. An
// empty inputPath starts from an empty w*h*d grid.
func RunUpdateVOPL(delta []byte, inputPath, outputPath string, w, h, d int) error {
	var grid *vopl.VoxelGrid
	var err error
	if inputPath != "" {
		grid, err = vopl.Load(inputPath)
	} else {
		grid, err = vopl.NewVoxelGrid(w, h, d)
	}
	if err != nil {
		return fmt.Errorf("failed to load input VOPL: %w", err)
	}
	if err := vopl.ApplyDelta(grid, delta); err != nil {
		return err
	}
	if err := vopl.Save(grid, outputPath); err != nil {
		return fmt.Errorf("failed to save VOPL: %w", err)
	}
	monitoring.Logger().WithField("voxels", grid.Count()).Info(".vopl updated")
	return nil
}
