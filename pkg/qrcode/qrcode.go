// Package qrcode encodes report verification URLs into scannable PNG
// images. The payload handed to this package is always a full URL wrapping
// the reference number, never the bare reference itself.
package qrcode

import (
	"encoding/base64"
	"fmt"
	"image/color"

	qr "github.com/skip2/go-qrcode"
)

// Width is the fixed pixel width of generated images.
const Width = 200

// PNG encodes the payload as a black-on-white QR PNG image.
func PNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("qrcode: empty payload")
	}
	code, err := qr.New(payload, qr.Medium)
	if err != nil {
		return nil, fmt.Errorf("qrcode: encode payload: %w", err)
	}
	code.ForegroundColor = color.Black
	code.BackgroundColor = color.White

	png, err := code.PNG(Width)
	if err != nil {
		return nil, fmt.Errorf("qrcode: render png: %w", err)
	}
	return png, nil
}

// DataURL encodes the payload and returns it as an inline image data URL
// suitable for embedding directly into rendered HTML documents.
func DataURL(payload string) (string, error) {
	png, err := PNG(payload)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
