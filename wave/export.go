package wave

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// MIME types ExportImage can encode.
const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
	MimeBMP  = "image/bmp"
	MimeTIFF = "image/tiff"
)

const jpegQuality = 92

// ErrUnsupportedMime is returned by EncodeImage for unknown MIME types.
var ErrUnsupportedMime = errors.New("unsupported image mime type")

// ExportImage draws one frame at the current time and returns it as a data URI.
// Unknown MIME types fall back to PNG. Returns "" when unmounted or on failure.
func (r *Renderer) ExportImage(mimeType string) string {
	m := r.state
	if m == nil {
		r.log.Error("export requested while not mounted", "mime", mimeType)
		return ""
	}

	// Drawn outside the clock so the frame parity is unaffected.
	if !r.draw(m, m.clock.Time(r.now())) {
		r.log.Error("export failed: no shader program")
		return ""
	}

	img, err := m.device.ReadPixels()
	if err != nil {
		r.log.Error("export failed", "error", err)
		return ""
	}

	data, err := EncodeImage(img, mimeType)
	if errors.Is(err, ErrUnsupportedMime) {
		r.log.Warn("unsupported export type, using png", "mime", mimeType)
		mimeType = MimePNG
		data, err = EncodeImage(img, mimeType)
	}
	if err != nil {
		r.log.Error("export encoding failed", "error", err, "mime", mimeType)
		return ""
	}

	b := img.Bounds()
	r.log.Debug("exported image", "mime", mimeType, "width", b.Dx(), "height", b.Dy(), "bytes", len(data))
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodeImage encodes img in the given MIME type.
func EncodeImage(img image.Image, mimeType string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(mimeType) {
	case MimePNG:
		err = png.Encode(&buf, img)
	case MimeJPEG, "image/jpg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case MimeBMP:
		err = bmp.Encode(&buf, img)
	case MimeTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMime, mimeType)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", mimeType, err)
	}
	return buf.Bytes(), nil
}

// DecodeDataURI splits a base64 data URI into its MIME type and payload.
func DecodeDataURI(uri string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.New("not a data uri")
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data uri has no payload")
	}
	mimeType, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, errors.New("data uri is not base64")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding data uri: %w", err)
	}
	return mimeType, data, nil
}

// Extension returns the file extension for a supported MIME type.
func Extension(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case MimeJPEG, "image/jpg":
		return ".jpg"
	case MimeBMP:
		return ".bmp"
	case MimeTIFF:
		return ".tiff"
	}
	return ".png"
}
