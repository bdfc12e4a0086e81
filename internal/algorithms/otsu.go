// Grayscale conversion and automatic Otsu thresholding
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Grayscale converts color input to a single intensity channel.
type Grayscale struct{}

func NewGrayscale() *Grayscale {
	return &Grayscale{}
}

func (g *Grayscale) Apply(input gocv.Mat) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}

	gray := gocv.NewMat()
	var err error
	switch input.Channels() {
	case 1:
		input.CopyTo(&gray)
	case 3:
		err = gocv.CvtColor(input, &gray, gocv.ColorBGRToGray)
	case 4:
		err = gocv.CvtColor(input, &gray, gocv.ColorBGRAToGray)
	default:
		err = fmt.Errorf("unsupported number of channels: %d", input.Channels())
	}
	if err != nil {
		gray.Close()
		return gocv.NewMat(), err
	}

	return gray, nil
}

func (g *Grayscale) GetName() string {
	return "Grayscale"
}

func (g *Grayscale) Validate() error {
	return nil
}

// OtsuInverse thresholds a grayscale image at the Otsu level with inverse
// polarity: pixels at or below the level become 255, the rest 0. On a light
// background the garment ends up foreground.
type OtsuInverse struct {
	MaxValue float32

	// Level holds the threshold chosen by the last Apply.
	Level float32
}

func NewOtsuInverse() *OtsuInverse {
	return &OtsuInverse{MaxValue: 255}
}

func (o *OtsuInverse) Apply(input gocv.Mat) (gocv.Mat, error) {
	if input.Empty() {
		return gocv.NewMat(), fmt.Errorf("input image is empty")
	}
	if input.Channels() != 1 {
		return gocv.NewMat(), fmt.Errorf("otsu threshold requires a single channel, got %d", input.Channels())
	}

	output := gocv.NewMat()
	o.Level = gocv.Threshold(input, &output, 0, o.MaxValue, gocv.ThresholdBinaryInv+gocv.ThresholdOtsu)

	return output, nil
}

func (o *OtsuInverse) GetName() string {
	return "Otsu Inverse"
}

func (o *OtsuInverse) Validate() error {
	if o.MaxValue <= 0 || o.MaxValue > 255 {
		return fmt.Errorf("max_value must be between 1 and 255")
	}
	return nil
}
