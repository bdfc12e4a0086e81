// Binary mask stages built on OpenCV
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Stage is one transformation in the mask pipeline. Apply never modifies
// input; the caller owns and must close the returned Mat.
type Stage interface {
	Apply(input gocv.Mat) (gocv.Mat, error)
	GetName() string
	Validate() error
}

// RunStages applies stages in order, closing every intermediate Mat.
// The input is left untouched.
func RunStages(input gocv.Mat, stages ...Stage) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	current := input.Clone()
	for _, stage := range stages {
		if err := stage.Validate(); err != nil {
			current.Close()
			return gocv.NewMat(), fmt.Errorf("%s: %w", stage.GetName(), err)
		}

		next, err := stage.Apply(current)
		current.Close()
		if err != nil {
			return gocv.NewMat(), fmt.Errorf("%s: %w", stage.GetName(), err)
		}
		current = next
	}

	return current, nil
}
