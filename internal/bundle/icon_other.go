//go:build !windows

package bundle

import (
	"bytes"
	"image"
	"image/png"
)

// encodeIcon encodes a tray icon frame. The tray accepts PNG outside Windows.
func encodeIcon(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
