package wave

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestExportUnmounted(t *testing.T) {
	r, logs, _ := newTestRenderer(t)
	if got := r.ExportImage(MimePNG); got != "" {
		t.Errorf("ExportImage = %q, want empty", got)
	}
	if _, ok := logs.find(slog.LevelError, "not mounted"); !ok {
		t.Error("unmounted export not logged")
	}
}

func TestExportPNG(t *testing.T) {
	r, _, _ := newTestRenderer(t)
	s := newFakeSurface(64, 48)
	mustMount(t, r, s)

	uri := r.ExportImage(MimePNG)
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("uri prefix = %.40q", uri)
	}
	mime, data, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatal(err)
	}
	if mime != MimePNG {
		t.Errorf("mime = %q", mime)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("size = %dx%d, want 64x48", b.Dx(), b.Dy())
	}
	want := DefaultColors[0]
	if got := color.RGBAModel.Convert(img.At(10, 10)).(color.RGBA); got != want {
		t.Errorf("pixel = %v, want clear color %v", got, want)
	}
}

func TestExportUnsupportedFallsBackToPNG(t *testing.T) {
	r, logs, _ := newTestRenderer(t)
	mustMount(t, r, newFakeSurface(8, 8))

	uri := r.ExportImage("image/webp")
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("uri prefix = %.40q", uri)
	}
	if _, ok := logs.find(slog.LevelWarn, "unsupported export type"); !ok {
		t.Error("fallback not logged")
	}
}

func TestExportFormats(t *testing.T) {
	decoders := map[string]func([]byte) (image.Image, error){
		MimeJPEG: func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) },
		MimeBMP:  func(b []byte) (image.Image, error) { return bmp.Decode(bytes.NewReader(b)) },
		MimeTIFF: func(b []byte) (image.Image, error) { return tiff.Decode(bytes.NewReader(b)) },
	}

	for mime, decode := range decoders {
		t.Run(mime, func(t *testing.T) {
			r, _, _ := newTestRenderer(t)
			mustMount(t, r, newFakeSurface(32, 16))

			gotMime, data, err := DecodeDataURI(r.ExportImage(mime))
			if err != nil {
				t.Fatal(err)
			}
			if gotMime != mime {
				t.Errorf("mime = %q, want %q", gotMime, mime)
			}
			img, err := decode(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
				t.Errorf("size = %dx%d, want 32x16", b.Dx(), b.Dy())
			}
		})
	}
}

func TestExportWithoutProgram(t *testing.T) {
	r, logs, _ := newTestRenderer(t)
	s := newFakeSurface(8, 8)
	s.compileErr = errors.New("boom")
	mustMount(t, r, s)

	if got := r.ExportImage(MimePNG); got != "" {
		t.Error("export without a program should fail")
	}
	if _, ok := logs.find(slog.LevelError, "no shader program"); !ok {
		t.Error("failure not logged")
	}
}

func TestExportKeepsFrameParity(t *testing.T) {
	r, _, ft := newTestRenderer(t)
	s := newFakeSurface(8, 8)
	mustMount(t, r, s)

	if r.ExportImage(MimePNG) == "" {
		t.Fatal("export failed")
	}
	if s.device.frames != 1 {
		t.Fatalf("frames after export = %d, want 1", s.device.frames)
	}

	ft.ms = 16
	s.step(ft.ms)
	ft.ms = 32
	s.step(ft.ms)
	if s.device.frames != 2 {
		t.Errorf("frames = %d, want 2 (loop draws on its first frame)", s.device.frames)
	}
}

func TestEncodeImageUnsupported(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if _, err := EncodeImage(img, "image/gif"); !errors.Is(err, ErrUnsupportedMime) {
		t.Errorf("err = %v, want ErrUnsupportedMime", err)
	}
}

func TestDecodeDataURIErrors(t *testing.T) {
	for _, uri := range []string{
		"",
		"image/png;base64,AAAA",
		"data:image/png;base64",
		"data:image/png,AAAA",
		"data:image/png;base64,@@@",
	} {
		if _, _, err := DecodeDataURI(uri); err == nil {
			t.Errorf("DecodeDataURI(%q) succeeded", uri)
		}
	}
}

func TestExtension(t *testing.T) {
	for mime, want := range map[string]string{
		MimePNG:      ".png",
		MimeJPEG:     ".jpg",
		"IMAGE/JPG":  ".jpg",
		MimeBMP:      ".bmp",
		MimeTIFF:     ".tiff",
		"image/webp": ".png",
	} {
		if got := Extension(mime); got != want {
			t.Errorf("Extension(%q) = %q, want %q", mime, got, want)
		}
	}
}
