package qr

import (
	"encoding/base64"
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/nordhaul/pickup-coordinator/internal/httperr"
)

const imageSize = 300

// Generator encodes pickup verification URLs as png data URLs, so the image
// travels inside the record and needs no separate artifact store.
type Generator struct {
	publicURL string
}

func NewGenerator(publicURL string) *Generator {
	return &Generator{publicURL: publicURL}
}

func (g *Generator) Generate(verificationKey string) (string, error) {
	target := fmt.Sprintf(
		"%s/verify?ref=%s",
		g.publicURL,
		url.QueryEscape(verificationKey),
	)

	png, err := qrcode.Encode(target, qrcode.Medium, imageSize)
	if err != nil {
		return "", httperr.ErrBusiness("generation_failed")
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
