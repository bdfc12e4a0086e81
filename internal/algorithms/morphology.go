// Morphological operations algorithms
package algorithms

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const (
	MinKernelSize = 1
	MaxKernelSize = 99
)

// Closing implements a single morphological closing with a square
// structuring element
type Closing struct {
	KernelSize int
}

// NewClosing creates a closing stage with a kernelSize x kernelSize element.
func NewClosing(kernelSize int) *Closing {
	return &Closing{KernelSize: kernelSize}
}

func (c *Closing) Apply(input gocv.Mat) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(c.KernelSize, c.KernelSize))
	defer kernel.Close()

	// Apply closing (dilation followed by erosion)
	output := gocv.NewMat()
	if err := gocv.MorphologyEx(input, &output, gocv.MorphClose, kernel); err != nil {
		output.Close()
		return gocv.NewMat(), err
	}

	return output, nil
}

func (c *Closing) GetName() string {
	return "Closing"
}

func (c *Closing) Validate() error {
	if c.KernelSize < MinKernelSize || c.KernelSize > MaxKernelSize {
		return fmt.Errorf("kernel_size must be between %d and %d", MinKernelSize, MaxKernelSize)
	}
	return nil
}
