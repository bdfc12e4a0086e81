package io

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func newTestLoader() *ImageLoader {
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewImageLoader(logger)
}

func TestLoadImageNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.jpg")

	_, err := newTestLoader().LoadImage(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, path, nf.Path)
}

func TestLoadImageDecodeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0o644))

	_, err := newTestLoader().LoadImage(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.False(t, errors.Is(err, ErrNotFound))

	_, err = newTestLoader().LoadImage(dir)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestSaveImageCreatesParents(t *testing.T) {
	mat := gocv.Zeros(12, 34, gocv.MatTypeCV8UC1)
	defer mat.Close()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "mask.png")
	loader := newTestLoader()
	require.NoError(t, loader.SaveImage(mat, path))

	loaded, err := loader.LoadImage(path)
	require.NoError(t, err)
	defer loaded.Close()
	assert.Equal(t, 12, loaded.Rows())
	assert.Equal(t, 34, loaded.Cols())
}

func TestSaveImageOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mask.png")
	loader := newTestLoader()

	small := gocv.Zeros(10, 10, gocv.MatTypeCV8UC1)
	defer small.Close()
	require.NoError(t, loader.SaveImage(small, path))

	large := gocv.Zeros(20, 30, gocv.MatTypeCV8UC1)
	defer large.Close()
	require.NoError(t, loader.SaveImage(large, path))

	loaded := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer loaded.Close()
	assert.Equal(t, 20, loaded.Rows())
	assert.Equal(t, 30, loaded.Cols())
}

func TestSaveImageRejects(t *testing.T) {
	loader := newTestLoader()
	dir := t.TempDir()

	empty := gocv.NewMat()
	defer empty.Close()
	assert.Error(t, loader.SaveImage(empty, filepath.Join(dir, "a.png")))

	mat := gocv.Zeros(5, 5, gocv.MatTypeCV8UC1)
	defer mat.Close()
	assert.Error(t, loader.SaveImage(mat, filepath.Join(dir, "a.gif")))

	_, err := os.Stat(filepath.Join(dir, "a.gif"))
	assert.True(t, os.IsNotExist(err))
}

func TestIsSupportedImageFormat(t *testing.T) {
	tests := map[string]bool{
		"mask.png":          true,
		"MASK.JPG":          true,
		"dir.v2/cloth.jpeg": true,
		"scan.tif":          true,
		"anim.gif":          false,
		"noext":             false,
		"dir.png/noext":     false,
	}
	for path, want := range tests {
		assert.Equal(t, want, IsSupportedImageFormat(path), path)
	}
}
