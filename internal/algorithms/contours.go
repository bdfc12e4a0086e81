package algorithms

import (
	"fmt"
	"image/color"

	"gocv.io/x/gocv"
)

var foreground = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// FindExternalContours returns the outermost boundaries of the non-zero
// regions in binary, simplified to their essential vertices. The caller
// must close the result.
func FindExternalContours(binary gocv.Mat) gocv.PointsVector {
	return gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
}

// FilterContours returns the indices of contours whose area is strictly
// greater than minArea. Contours at or below minArea are treated as noise.
func FilterContours(contours gocv.PointsVector, minArea float64) []int {
	kept := make([]int, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		if gocv.ContourArea(contours.At(i)) > minArea {
			kept = append(kept, i)
		}
	}
	return kept
}

// FillContours draws the selected contours solid (255) into a new all-zero
// single-channel mask of rows x cols.
func FillContours(rows, cols int, contours gocv.PointsVector, indices []int) (gocv.Mat, error) {
	if rows <= 0 || cols <= 0 {
		return gocv.NewMat(), fmt.Errorf("invalid mask dimensions: %dx%d", cols, rows)
	}

	mask := gocv.Zeros(rows, cols, gocv.MatTypeCV8UC1)
	for _, idx := range indices {
		if idx < 0 || idx >= contours.Size() {
			mask.Close()
			return gocv.NewMat(), fmt.Errorf("contour index %d out of range", idx)
		}
		if err := gocv.DrawContours(&mask, contours, idx, foreground, -1); err != nil {
			mask.Close()
			return gocv.NewMat(), err
		}
	}

	return mask, nil
}
