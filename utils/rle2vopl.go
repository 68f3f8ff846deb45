package utils

import (
	"fmt"
	"os"

	"github.com/voxelsplace/hypersponge/api"
	"github.com/voxelsplace/hypersponge/monitoring"
)

// RunRLE2VOPL writes a w*h*d grid given as "count,colour,..." runs.
func RunRLE2VOPL(w, h, d int, rleArg, outPath string) error {
	data, err := api.RLEToVOPLBytes(w, h, d, rleArg)
	if err != nil {
		return fmt.Errorf("failed to expand RLE: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save VOPL: %w", err)
	}
	monitoring.Logger().WithField("bytes", len(data)).Info(".vopl saved")
	return nil
}
