// Summary statistics for generated masks
package metrics

import (
	"fmt"

	"gocv.io/x/gocv"
)

// MaskStats describes one finished mask.
type MaskStats struct {
	Width            int
	Height           int
	ForegroundPixels int
	ForegroundRatio  float64
	ContoursFound    int
	ContoursKept     int
	Threshold        float64
}

// Empty reports whether no contour survived the area filter.
func (s MaskStats) Empty() bool {
	return s.ForegroundPixels == 0
}

// Compute measures mask, which must be single channel.
func Compute(mask gocv.Mat, found, kept int, threshold float32) (MaskStats, error) {
	if mask.Empty() {
		return MaskStats{}, fmt.Errorf("mask is empty")
	}
	if mask.Channels() != 1 {
		return MaskStats{}, fmt.Errorf("mask must be single channel, got %d", mask.Channels())
	}

	total := mask.Rows() * mask.Cols()
	fg := gocv.CountNonZero(mask)

	return MaskStats{
		Width:            mask.Cols(),
		Height:           mask.Rows(),
		ForegroundPixels: fg,
		ForegroundRatio:  float64(fg) / float64(total),
		ContoursFound:    found,
		ContoursKept:     kept,
		Threshold:        float64(threshold),
	}, nil
}

// IsBinary reports whether every pixel of mask is 0 or 255.
func IsBinary(mask gocv.Mat) bool {
	if mask.Empty() || mask.Channels() != 1 {
		return false
	}
	for _, v := range mask.ToBytes() {
		if v != 0 && v != 255 {
			return false
		}
	}
	return true
}
