package main

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{0xff, 0, 0x55, 0xff})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, w, h))
}

func TestImagePayloads(t *testing.T) {
	t.Parallel()

	text := "notes.txt\n" +
		"  \"/tmp/shot.PNG\"  \n" +
		"file:///tmp/cat.webp\n" +
		"data:image/gif;base64,R0lG\n" +
		"just some words\n"

	assert.Equal(t, []string{"/tmp/shot.PNG", "/tmp/cat.webp", "data:image/gif;base64,R0lG"}, imagePayloads(text))
	assert.Empty(t, imagePayloads("hello world"))
}

func TestDecodeImagePayload_DataURL(t *testing.T) {
	t.Parallel()

	img, err := decodeImagePayload(pngDataURL(t, 4, 2))
	require.NoError(t, err)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Regexp(t, `^data:image/png;base64,`, img.DataURL)
}

func TestDecodeImagePayload_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 30, 10), 0o644))

	img, err := decodeImagePayload(path)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Width)
	assert.Equal(t, 10, img.Height)

	decoded, err := loadPinImage(img.DataURL)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 10), decoded.Bounds())
}

func TestDecodeImagePayload_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "missing file", src: filepath.Join(t.TempDir(), "nope.png")},
		{name: "not base64", src: "data:image/png;base64,@@@"},
		{name: "not an image", src: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("plain text"))},
		{name: "url encoded", src: "data:image/svg+xml,%3Csvg%3E"},
		{name: "text mime", src: "data:text/plain;base64,aGk="},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeImagePayload(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestParseDataURL_RejectsNonImages(t *testing.T) {
	t.Parallel()

	_, err := parseDataURL("data:text/plain;base64,aGk=")
	assert.ErrorIs(t, err, errNotImage)

	_, err = parseDataURL("data:image/png,raw")
	assert.ErrorIs(t, err, errNotImage)
}

func TestDecodeImagesCmd(t *testing.T) {
	t.Parallel()

	cmd := decodeImagesCmd([]string{pngDataURL(t, 8, 8), "data:image/png;base64,@@@", pngDataURL(t, 2, 6)})
	msg, ok := cmd().(imagesPastedMsg)
	require.True(t, ok)
	require.Len(t, msg.images, 2)
	assert.Len(t, msg.errs, 1)
	assert.Equal(t, 2, msg.images[1].Width)
	assert.Equal(t, 6, msg.images[1].Height)
}
