package utils

import (
	"fmt"

	"github.com/voxelsplace/hypersponge/monitoring"
)

func RunVOPLPACK2VOPL(inPath, outDir string) error {
	if err := UnpackToDir(inPath, outDir); err != nil {
		return fmt.Errorf("unpack %s: %w", inPath, err)
	}
	monitoring.Logger().WithField("dir", outDir).Info("pack unpacked")
	return nil
}
