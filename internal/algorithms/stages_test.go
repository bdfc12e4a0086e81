package algorithms

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// darkOnLight returns a BGR image of a white background with a black block.
func darkOnLight(rows, cols int, block image.Rectangle) gocv.Mat {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), rows, cols, gocv.MatTypeCV8UC3)
	region := img.Region(block)
	region.SetTo(gocv.NewScalar(0, 0, 0, 0))
	region.Close()
	return img
}

func TestGrayscaleChannels(t *testing.T) {
	color := darkOnLight(20, 30, image.Rect(0, 0, 5, 5))
	defer color.Close()

	gray, err := NewGrayscale().Apply(color)
	require.NoError(t, err)
	defer gray.Close()

	assert.Equal(t, 1, gray.Channels())
	assert.Equal(t, 20, gray.Rows())
	assert.Equal(t, 30, gray.Cols())

	again, err := NewGrayscale().Apply(gray)
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, 1, again.Channels())
}

func TestOtsuInversePolarity(t *testing.T) {
	img := darkOnLight(50, 50, image.Rect(10, 10, 30, 30))
	defer img.Close()

	otsu := NewOtsuInverse()
	binary, err := RunStages(img, NewGrayscale(), otsu)
	require.NoError(t, err)
	defer binary.Close()

	assert.Equal(t, uint8(255), binary.GetUCharAt(20, 20), "dark garment becomes foreground")
	assert.Equal(t, uint8(0), binary.GetUCharAt(45, 45), "light background becomes zero")
	assert.Equal(t, 20*20, gocv.CountNonZero(binary))
	assert.Less(t, otsu.Level, float32(255))
}

func TestOtsuInverseRequiresSingleChannel(t *testing.T) {
	img := darkOnLight(10, 10, image.Rect(0, 0, 2, 2))
	defer img.Close()

	_, err := NewOtsuInverse().Apply(img)
	assert.Error(t, err)
}

func TestClosingFillsNarrowGap(t *testing.T) {
	binary := gocv.Zeros(100, 100, gocv.MatTypeCV8UC1)
	defer binary.Close()

	left := binary.Region(image.Rect(20, 20, 48, 80))
	left.SetTo(gocv.NewScalar(255, 0, 0, 0))
	left.Close()
	right := binary.Region(image.Rect(52, 20, 80, 80))
	right.SetTo(gocv.NewScalar(255, 0, 0, 0))
	right.Close()

	closed, err := NewClosing(15).Apply(binary)
	require.NoError(t, err)
	defer closed.Close()

	assert.Equal(t, uint8(0), binary.GetUCharAt(50, 50))
	assert.Equal(t, uint8(255), closed.GetUCharAt(50, 50))
}

func TestClosingValidate(t *testing.T) {
	assert.NoError(t, NewClosing(15).Validate())
	assert.Error(t, NewClosing(0).Validate())
	assert.Error(t, NewClosing(MaxKernelSize+1).Validate())
	assert.Error(t, (&Closing{KernelSize: -3}).Validate())
}

func TestRunStagesLeavesInputIntact(t *testing.T) {
	img := darkOnLight(30, 30, image.Rect(5, 5, 10, 10))
	defer img.Close()

	out, err := RunStages(img, NewGrayscale())
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, 3, img.Channels())
	assert.Equal(t, 1, out.Channels())
}

func TestRunStagesEmptyInput(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	_, err := RunStages(empty, NewGrayscale())
	assert.Error(t, err)
}

func TestRunStagesReportsInvalidStage(t *testing.T) {
	img := darkOnLight(30, 30, image.Rect(5, 5, 10, 10))
	defer img.Close()

	_, err := RunStages(img, NewGrayscale(), NewClosing(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Closing")
}
