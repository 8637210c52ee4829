package credential

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// RenderQR renders a signed token as a PNG QR image for physical
// presentation at gates. The encoded payload is the authoritative artifact;
// the image is a transport convenience. High error correction keeps phone
// screens scannable under glare.
func RenderQR(token string, size int) ([]byte, error) {
	if size <= 0 {
		size = 512
	}
	png, err := qrcode.Encode(token, qrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("render credential qr: %w", err)
	}
	return png, nil
}
