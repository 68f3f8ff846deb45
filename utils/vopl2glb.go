package utils

import (
	"fmt"
	"os"

	"github.com/voxelsplace/hypersponge/api"
	"github.com/voxelsplace/hypersponge/monitoring"
)

// RunVOPL2GLB greedy-meshes a .vopl file into a binary glTF.
func RunVOPL2GLB(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	glb, err := api.VOPLToGLB(data)
	if err != nil {
		return fmt.Errorf("convert %s: %w", inPath, err)
	}
	if err := os.WriteFile(outPath, glb, 0o644); err != nil {
		return err
	}
	monitoring.Logger().WithField("bytes", len(glb)).Infof(".glb saved to %s", outPath)
	return nil
}
