// Cloth mask generation
package core

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"cloth-mask/internal/algorithms"
	"cloth-mask/internal/io"
	"cloth-mask/internal/metrics"
)

const (
	DefaultKernelSize = 15
	DefaultMinArea    = 5000.0
)

// MaskParams fixes the algorithm parameters of one generator.
type MaskParams struct {
	KernelSize int
	MinArea    float64
}

// DefaultMaskParams returns a 15x15 closing and a 5000 px² area floor.
func DefaultMaskParams() MaskParams {
	return MaskParams{
		KernelSize: DefaultKernelSize,
		MinArea:    DefaultMinArea,
	}
}

func (p MaskParams) Validate() error {
	if p.KernelSize < algorithms.MinKernelSize || p.KernelSize > algorithms.MaxKernelSize {
		return fmt.Errorf("kernel size must be between %d and %d, got %d",
			algorithms.MinKernelSize, algorithms.MaxKernelSize, p.KernelSize)
	}
	if p.KernelSize%2 == 0 {
		return fmt.Errorf("kernel size must be odd, got %d", p.KernelSize)
	}
	if p.MinArea < 0 {
		return fmt.Errorf("min area must not be negative, got %g", p.MinArea)
	}
	return nil
}

// MaskGenerator derives a binary garment mask from a photograph. It holds
// no per-call state and may be shared between goroutines. Concurrent writes
// to the same destination path are not coordinated.
type MaskGenerator struct {
	params MaskParams
	loader *io.ImageLoader
	logger logrus.FieldLogger
}

func NewMaskGenerator(params MaskParams, logger logrus.FieldLogger) (*MaskGenerator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &MaskGenerator{
		params: params,
		loader: io.NewImageLoader(logger),
		logger: logger,
	}, nil
}

func (g *MaskGenerator) Params() MaskParams {
	return g.params
}

// Generate reads sourcePath, computes the mask and writes it to destPath,
// creating parent directories and overwriting any existing file. An image
// with no contour above the area floor still succeeds with an all-zero mask.
func (g *MaskGenerator) Generate(sourcePath, destPath string) (string, metrics.MaskStats, error) {
	if !io.IsSupportedImageFormat(destPath) {
		return "", metrics.MaskStats{}, fmt.Errorf("unsupported mask format: %s", destPath)
	}

	src, err := g.loader.LoadImage(sourcePath)
	if err != nil {
		return "", metrics.MaskStats{}, err
	}
	defer src.Close()

	mask, stats, err := g.Compute(src)
	if err != nil {
		return "", metrics.MaskStats{}, fmt.Errorf("compute mask for %s: %w", sourcePath, err)
	}
	defer mask.Close()

	if err := g.loader.SaveImage(mask, destPath); err != nil {
		return "", metrics.MaskStats{}, err
	}

	entry := g.logger.WithFields(logrus.Fields{
		"source":           sourcePath,
		"destination":      destPath,
		"threshold":        stats.Threshold,
		"contours_found":   stats.ContoursFound,
		"contours_kept":    stats.ContoursKept,
		"foreground_ratio": stats.ForegroundRatio,
	})
	if stats.Empty() {
		entry.Warn("No contour exceeded the area threshold, wrote empty mask")
	} else {
		entry.Info("Cloth mask saved")
	}

	return destPath, stats, nil
}

// Compute runs the mask pipeline on an in-memory image. The returned mask
// is single channel, has the dimensions of src and holds only 0 and 255.
func (g *MaskGenerator) Compute(src gocv.Mat) (gocv.Mat, metrics.MaskStats, error) {
	if src.Empty() {
		return gocv.NewMat(), metrics.MaskStats{}, fmt.Errorf("source image is empty")
	}

	otsu := algorithms.NewOtsuInverse()
	binary, err := algorithms.RunStages(src,
		algorithms.NewGrayscale(),
		otsu,
		algorithms.NewClosing(g.params.KernelSize),
	)
	if err != nil {
		return gocv.NewMat(), metrics.MaskStats{}, err
	}
	defer binary.Close()

	contours := algorithms.FindExternalContours(binary)
	defer contours.Close()

	kept := algorithms.FilterContours(contours, g.params.MinArea)

	mask, err := algorithms.FillContours(src.Rows(), src.Cols(), contours, kept)
	if err != nil {
		return gocv.NewMat(), metrics.MaskStats{}, err
	}

	stats, err := metrics.Compute(mask, contours.Size(), len(kept), otsu.Level)
	if err != nil {
		mask.Close()
		return gocv.NewMat(), metrics.MaskStats{}, err
	}

	g.logger.WithFields(logrus.Fields{
		"width":          stats.Width,
		"height":         stats.Height,
		"contours_found": stats.ContoursFound,
		"contours_kept":  stats.ContoursKept,
	}).Debug("Mask computed")

	return mask, stats, nil
}
