package utils

import (
	"fmt"
	"os"

	"github.com/voxelsplace/hypersponge/api"
	"github.com/voxelsplace/hypersponge/monitoring"
)

// RunVOPLPACK2GLB writes every pack entry as its own node, tiled on the
// floor in pack order.
func RunVOPLPACK2GLB(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	glb, err := api.VOPLPACKToGLB(data)
	if err != nil {
		return fmt.Errorf("convert %s: %w", inPath, err)
	}
	if err := os.WriteFile(outPath, glb, 0o644); err != nil {
		return err
	}
	monitoring.Logger().WithField("bytes", len(glb)).Infof(".glb saved to %s", outPath)
	return nil
}
