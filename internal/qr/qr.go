// Package qr renders signed token payloads as scannable images.
package qr

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Encoder produces PNG QR codes at a fixed pixel size.
type Encoder struct {
	size int
}

func NewEncoder() *Encoder {
	return &Encoder{size: defaultSize}
}

// PNG encodes the payload as a PNG image.
func (e *Encoder) PNG(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, e.size)
}

// DataURL wraps the PNG in a data: URL for direct embedding in HTML.
func (e *Encoder) DataURL(payload string) (string, error) {
	png, err := e.PNG(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
