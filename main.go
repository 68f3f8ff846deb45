//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/voxelsplace/hypersponge/config"
	"github.com/voxelsplace/hypersponge/monitoring"
	"github.com/voxelsplace/hypersponge/sponge"
	"github.com/voxelsplace/hypersponge/utils"
	"github.com/voxelsplace/hypersponge/vopl"
)

var configPath string

func setupLogging(level, format string) error {
	l, err := monitoring.NewLogger(level, format, os.Stderr)
	if err != nil {
		return err
	}
	monitoring.SetLogger(l)
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hypersponge",
		Short:         "4D Menger sponge cross-sections as VOPL voxel files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("log-format")
			return setupLogging(level, format)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text or json)")

	root.AddCommand(
		newGenerateCmd(),
		newMemberCmd(),
		newSponge3DCmd(),
		newVOPL2GLBCmd(),
		newVOPLPACK2GLBCmd(),
		newVOPL2VOPLPACKCmd(),
		newVOPLPACK2VOPLCmd(),
		newDeltasCmd(),
		newUpdateVOPLCmd(),
		newRLE2VOPLCmd(),
	)
	return root
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "compute a slice sequence and write the configured outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			// the config file may carry its own log settings
			if err := setupLogging(cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}
			res, err := utils.RunGenerate(cfg)
			if err != nil {
				return err
			}
			for _, p := range res.Outputs {
				fmt.Println(p)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Int("level", 2, "sponge level")
	f.String("method", "rational", "slicing method (integer or rational)")
	f.Int("resolution", 20, "points per axis for the rational method")
	f.Int("frames", 10, "number of slices")
	f.Int("max-level", sponge.DefaultMaxLatticeLevel, "level ceiling for the integer method")
	f.Int("workers", 0, "parallel plane workers (0 = all CPUs)")
	f.String("out", "output", "output directory")
	f.StringSlice("formats", nil, "outputs: voplpack, vopl, glb, gif, html, plot, manifest, deltas")
	f.Int("gif-delay", 50, "GIF frame delay in 100ths of a second")
	addPackFlags(f)
	return cmd
}

func addPackFlags(f *pflag.FlagSet) {
	f.String("compression", "zstd", "pack compression (none, zlib, zstd)")
	f.String("layout", "cdc", "pack layout (raw, cdc)")
}

func packFlags(cmd *cobra.Command) (vopl.PackLayout, vopl.PackCompression, error) {
	ls, _ := cmd.Flags().GetString("layout")
	cs, _ := cmd.Flags().GetString("compression")
	layout, err := vopl.ParseLayout(ls)
	if err != nil {
		return 0, 0, err
	}
	comp, err := vopl.ParseCompression(cs)
	if err != nil {
		return 0, 0, err
	}
	return layout, comp, nil
}

func newMemberCmd() *cobra.Command {
	var level int
	cmd := &cobra.Command{
		Use:   "member x y z w",
		Short: "report whether a point lies in the sponge (coordinates like 1/3, 0.5, 1)",
		Args:  cobra.ExactArgs(4),
		RunE: func(_ *cobra.Command, args []string) error {
			ok, err := utils.RunMember([4]string{args[0], args[1], args[2], args[3]}, level)
			if err != nil {
				return err
			}
			fmt.Println(ok)
			return nil
		},
	}
	cmd.Flags().IntVar(&level, "level", 2, "sponge level")
	return cmd
}

func newSponge3DCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sponge3d level output.{vopl,glb}",
		Short: "write the 3D Menger sponge",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("level %q: %w", args[0], err)
			}
			return utils.RunSponge3D(level, args[1])
		},
	}
}

func newVOPL2GLBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vopl2glb input.vopl output.glb",
		Short: "convert .vopl to .glb using the greedy mesher",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return utils.RunVOPL2GLB(args[0], args[1])
		},
	}
}

func newVOPLPACK2GLBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voplpack2glb input.voplpack output.glb",
		Short: "convert .voplpack to .glb, one node per entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return utils.RunVOPLPACK2GLB(args[0], args[1])
		},
	}
}

func newVOPL2VOPLPACKCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vopl2voplpack output.voplpack input1.vopl [input2.vopl ...]",
		Short: "pack .vopl files sharing a header into a .voplpack",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, comp, err := packFlags(cmd)
			if err != nil {
				return err
			}
			return utils.CreatePack(args[1:], args[0], layout, comp)
		},
	}
	addPackFlags(cmd.Flags())
	return cmd
}

func newVOPLPACK2VOPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voplpack2vopl input.voplpack output_dir",
		Short: "unpack a .voplpack into a directory of .vopl files",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return utils.RunVOPLPACK2VOPL(args[0], args[1])
		},
	}
}

func newDeltasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deltas input.voplpack output_dir",
		Short: "write a .voplpack as a stream of per-frame deltas",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return utils.RunPack2Deltas(args[0], args[1])
		},
	}
}

func newUpdateVOPLCmd() *cobra.Command {
	var base string
	var dims []int
	cmd := &cobra.Command{
		Use:   "updatevopl update.vdelta output.vopl",
		Short: "apply a delta to --base, or to an empty grid of --dims",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if base == "" && len(dims) != 3 {
				return fmt.Errorf("need --base or --dims w,h,d")
			}
			delta, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var w, h, d int
			if len(dims) == 3 {
				w, h, d = dims[0], dims[1], dims[2]
			}
			return utils.RunUpdateVOPL(delta, base, args[1], w, h, d)
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "grid the delta applies to")
	cmd.Flags().IntSliceVar(&dims, "dims", nil, "size of the empty starting grid")
	return cmd
}

func newRLE2VOPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rle2vopl w h d rle output.vopl",
		Short: "expand count,colour runs into a .vopl",
		Args:  cobra.ExactArgs(5),
		RunE: func(_ *cobra.Command, args []string) error {
			var dims [3]int
			for i := range dims {
				v, err := strconv.Atoi(args[i])
				if err != nil {
					return fmt.Errorf("dimension %q: %w", args[i], err)
				}
				dims[i] = v
			}
			return utils.RunRLE2VOPL(dims[0], dims[1], dims[2], args[3], args[4])
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
