package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/voxelsplace/hypersponge/api"
	"github.com/voxelsplace/hypersponge/monitoring"
	"github.com/voxelsplace/hypersponge/vopl"
)

// CreatePack reads .vopl files in parallel and writes them as one .voplpack.
// Entries are named by base name; the inputs must share a header.
func CreatePack(inputFiles []string, outputFile string, layout vopl.PackLayout, comp vopl.PackCompression) error {
	if len(inputFiles) == 0 {
		return fmt.Errorf("no .vopl files provided")
	}
	blobs := make([][]byte, len(inputFiles))
	var g errgroup.Group
	for i, path := range inputFiles {
		g.Go(func() error {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			blobs[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	files := make(map[string][]byte, len(inputFiles))
	for i, path := range inputFiles {
		name := filepath.Base(path)
		if _, dup := files[name]; dup {
			return fmt.Errorf("duplicate entry name %s", name)
		}
		files[name] = blobs[i]
	}

	start := time.Now()
	data, err := api.PackVOPLs(files, layout, comp)
	if err != nil {
		return err
	}
	monitoring.Logger().WithFields(logrus.Fields{
		"entries":     len(files),
		"layout":      layout,
		"compression": comp,
		"bytes":       len(data),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	}).Info("pack written")
	return os.WriteFile(outputFile, data, 0o644)
}

// UnpackToDir writes every entry of a .voplpack into outputDir.
func UnpackToDir(packFile, outputDir string) error {
	data, err := os.ReadFile(packFile)
	if err != nil {
		return err
	}
	files, err := api.UnpackVOPLPACKToMemory(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	var g errgroup.Group
	for name, b := range files {
		g.Go(func() error {
			return os.WriteFile(filepath.Join(outputDir, filepath.Base(name)), b, 0o644)
		})
	}
	return g.Wait()
}

// UnpackToMemory returns entry names and raw .vopl bytes in pack order.
func UnpackToMemory(packFile string) ([]string, [][]byte, error) {
	data, err := os.ReadFile(packFile)
	if err != nil {
		return nil, nil, err
	}
	pack, _, err := vopl.UnmarshalPack(data)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(pack.Entries))
	blobs := make([][]byte, len(pack.Entries))
	for i, e := range pack.Entries {
		names[i] = e.Name
		blobs[i] = pack.File(i)
	}
	return names, blobs, nil
}
