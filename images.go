package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var errNotImage = errors.New("not an image payload")

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".bmp": true,
}

// decodedImage is an image payload ready to become a pin.
type decodedImage struct {
	DataURL string
	Width   int
	Height  int
}

// imagesPastedMsg carries the result of an asynchronous paste decode back to
// the update loop.
type imagesPastedMsg struct {
	images []decodedImage
	errs   []error
}

// imagePayloads picks the lines of pasted text that look like images: data
// URLs or paths to image files.
func imagePayloads(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "data:image/") {
			out = append(out, line)
			continue
		}
		line = strings.TrimPrefix(line, "file://")
		if imageExtensions[strings.ToLower(filepath.Ext(line))] {
			out = append(out, expandHome(line))
		}
	}
	return out
}

// decodeImagesCmd decodes every payload off the update loop.
func decodeImagesCmd(payloads []string) tea.Cmd {
	return func() tea.Msg {
		var msg imagesPastedMsg
		for _, p := range payloads {
			img, err := decodeImagePayload(p)
			if err != nil {
				msg.errs = append(msg.errs, err)
				continue
			}
			msg.images = append(msg.images, img)
		}
		return msg
	}
}

func decodeImagePayload(src string) (decodedImage, error) {
	var raw []byte
	if strings.HasPrefix(src, "data:") {
		b, err := parseDataURL(src)
		if err != nil {
			return decodedImage{}, err
		}
		raw = b
	} else {
		b, err := os.ReadFile(src)
		if err != nil {
			return decodedImage{}, fmt.Errorf("read image %s: %w", src, err)
		}
		raw = b
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return decodedImage{}, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return decodedImage{}, fmt.Errorf("decode image: empty %dx%d %s", cfg.Width, cfg.Height, format)
	}
	return decodedImage{
		DataURL: "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(raw),
		Width:   cfg.Width,
		Height:  cfg.Height,
	}, nil
}

func parseDataURL(src string) ([]byte, error) {
	meta, data, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok || !strings.HasPrefix(meta, "image/") {
		return nil, errNotImage
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: only base64 data URLs are supported", errNotImage)
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("data url: %w", err)
	}
	return b, nil
}

// loadPinImage decodes the pixels behind an image pin's content.
func loadPinImage(content string) (image.Image, error) {
	raw, err := parseDataURL(content)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode pin image: %w", err)
	}
	return img, nil
}
