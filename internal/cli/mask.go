package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cloth-mask/internal/core"
	"cloth-mask/internal/io"
)

type maskJob struct {
	source string
	dest   string
}

func newMaskCmd(a *app) *cobra.Command {
	var (
		out     string
		outDir  string
		ext     string
		keepExt bool
		kernel  int
		minArea float64
		jobs    int
	)

	cmd := &cobra.Command{
		Use:   "mask SOURCE [SOURCE...]",
		Short: "Generate binary cloth masks from garment photographs",
		Long: `Generates a single-channel mask (0 background, 255 garment) for each
source image and writes it to the destination, creating parent directories.

Masks are written losslessly only for PNG, TIFF and BMP destinations; JPEG
compression introduces values other than 0 and 255 along edges.`,
		Example: `  # One mask at an explicit path
  clothmask mask cloth.jpg -o cloth-mask/cloth.png

  # Many masks into a directory, four at a time
  clothmask mask cloth/*.jpg --out-dir cloth-mask --jobs 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := a.cfg.MaskParams()
			if cmd.Flags().Changed("kernel") {
				params.KernelSize = kernel
			}
			if cmd.Flags().Changed("min-area") {
				params.MinArea = minArea
			}

			if keepExt && cmd.Flags().Changed("ext") {
				return fmt.Errorf("--ext and --keep-ext are mutually exclusive")
			}

			plan, err := planMaskJobs(args, out, outDir, ext, keepExt)
			if err != nil {
				return err
			}

			gen, err := core.NewMaskGenerator(params, a.logger)
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			if jobs > 0 {
				g.SetLimit(jobs)
			}

			var mu sync.Mutex
			w := cmd.OutOrStdout()
			for _, job := range plan {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					dest, stats, err := gen.Generate(job.source, job.dest)
					if err != nil {
						a.logger.WithError(err).WithField("source", job.source).Error("Mask generation failed")
						return err
					}
					mu.Lock()
					defer mu.Unlock()
					fmt.Fprintf(w, "%s\t%d/%d contours\t%.2f%% foreground\n",
						dest, stats.ContoursKept, stats.ContoursFound, stats.ForegroundRatio*100)
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			a.logger.WithFields(logrus.Fields{
				"masks":       len(plan),
				"kernel_size": gen.Params().KernelSize,
				"min_area":    gen.Params().MinArea,
			}).Info("Mask generation complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Destination path (single source only)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Destination directory; masks are named after their source")
	cmd.Flags().StringVar(&ext, "ext", ".png", "Extension for masks written with --out-dir")
	cmd.Flags().BoolVar(&keepExt, "keep-ext", false, "Give each mask written with --out-dir its source's extension")
	cmd.Flags().IntVar(&kernel, "kernel", core.DefaultKernelSize, "Closing kernel size (odd)")
	cmd.Flags().Float64Var(&minArea, "min-area", core.DefaultMinArea, "Contours with a larger area are kept")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "Masks generated concurrently")

	return cmd
}

// planMaskJobs maps sources to destinations and rejects layouts where two
// sources would write the same mask. With keepExt each mask takes the
// extension of its source instead of ext.
func planMaskJobs(sources []string, out, outDir, ext string, keepExt bool) ([]maskJob, error) {
	switch {
	case out != "" && outDir != "":
		return nil, fmt.Errorf("--out and --out-dir are mutually exclusive")
	case out != "" && len(sources) > 1:
		return nil, fmt.Errorf("--out accepts a single source, got %d; use --out-dir", len(sources))
	case out == "" && outDir == "":
		return nil, fmt.Errorf("one of --out or --out-dir is required")
	}

	if out != "" {
		return []maskJob{{source: sources[0], dest: out}}, nil
	}

	if !keepExt {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !io.IsSupportedImageFormat("mask" + ext) {
			return nil, fmt.Errorf("unsupported mask extension: %s", ext)
		}
	}

	seen := make(map[string]string, len(sources))
	plan := make([]maskJob, 0, len(sources))
	for _, src := range sources {
		srcExt := filepath.Ext(src)
		base := strings.TrimSuffix(filepath.Base(src), srcExt)
		destExt := ext
		if keepExt {
			if !io.IsSupportedImageFormat(src) {
				return nil, fmt.Errorf("unsupported mask extension for %s: %q", src, srcExt)
			}
			destExt = srcExt
		}
		dest := filepath.Join(outDir, base+destExt)
		if prev, ok := seen[dest]; ok {
			return nil, fmt.Errorf("%s and %s both map to %s", prev, src, dest)
		}
		seen[dest] = src
		plan = append(plan, maskJob{source: src, dest: dest})
	}
	return plan, nil
}
