package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/voxelsplace/hypersponge/api"
	"github.com/voxelsplace/hypersponge/monitoring"
	"github.com/voxelsplace/hypersponge/sponge"
	"github.com/voxelsplace/hypersponge/vopl"
)

// RunSponge3D writes the level 3D Menger sponge as .vopl or .glb, chosen by
// the extension of outPath.
func RunSponge3D(level int, outPath string) error {
	cs, err := sponge.Build3D(level)
	if err != nil {
		return err
	}
	g, err := api.SliceToGrid(cs)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(outPath)); ext {
	case ".vopl":
		err = vopl.Save(g, outPath)
	case ".glb":
		doc := api.NewDocument("hypersponge sponge3d")
		doc.AddGrid(fmt.Sprintf("sponge3d_level%d", level), g, [3]float32{})
		err = doc.Save(outPath)
	default:
		return fmt.Errorf("unsupported output %q (want .vopl or .glb)", ext)
	}
	if err != nil {
		return err
	}
	monitoring.Logger().WithFields(logrus.Fields{"level": level, "cubes": cs.Count()}).Infof("wrote %s", outPath)
	return nil
}

// RunMember answers a point query. Coordinates accept "p/q", decimal and
// integer notation.
func RunMember(args [4]string, level int) (bool, error) {
	var p [4]sponge.Coord
	for i, a := range args {
		c, err := sponge.ParseCoord(a)
		if err != nil {
			return false, err
		}
		p[i] = c
	}
	ok, err := sponge.IsMember(p[0], p[1], p[2], p[3], level)
	if err != nil {
		return false, err
	}
	monitoring.Logger().WithFields(logrus.Fields{
		"point": fmt.Sprintf("(%s, %s, %s, %s)", p[0], p[1], p[2], p[3]),
		"level": level,
	}).Debugf("member = %t", ok)
	return ok, nil
}
