package bundle

import (
	"bytes"
	"image"

	"github.com/sergeymakinen/go-ico"
)

// encodeIcon encodes a tray icon frame. The Windows tray only accepts ICO.
func encodeIcon(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := ico.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
