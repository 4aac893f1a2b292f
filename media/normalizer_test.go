package media

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (string, int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode normalized output: %v", err)
	}
	return format, cfg.Width, cfg.Height
}

func TestNormalizeDimensions(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		wantW      int
		wantH      int
	}{
		{"wide landscape", 1200, 400, 600, 400},
		{"mild landscape", 800, 600, 600, 400},
		{"square counts as landscape", 500, 500, 600, 400},
		{"portrait", 600, 800, 400, 600},
		{"tall portrait", 300, 1200, 400, 600},
		{"tiny landscape upscales", 30, 20, 600, 400},
		{"tiny portrait upscales", 20, 30, 400, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := imaging.New(tt.srcW, tt.srcH, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
			out, err := Normalize(encodePNG(t, src))
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}

			format, w, h := decodeDims(t, out)
			if format != "jpeg" {
				t.Errorf("output format = %q, want jpeg", format)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("output dimensions = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNormalizeIdempotentDimensions(t *testing.T) {
	src := imaging.New(1024, 640, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	first, err := Normalize(encodePNG(t, src))
	if err != nil {
		t.Fatalf("first Normalize() error = %v", err)
	}
	second, err := Normalize(first)
	if err != nil {
		t.Fatalf("second Normalize() error = %v", err)
	}

	_, w1, h1 := decodeDims(t, first)
	_, w2, h2 := decodeDims(t, second)
	if w1 != 600 || h1 != 400 {
		t.Fatalf("first pass = %dx%d, want 600x400", w1, h1)
	}
	if w2 != w1 || h2 != h1 {
		t.Errorf("second pass = %dx%d, want %dx%d", w2, h2, w1, h1)
	}
}

func TestNormalizeFlattensAlpha(t *testing.T) {
	src := imaging.New(640, 480, color.NRGBA{R: 255, G: 0, B: 0, A: 128})
	out, err := Normalize(encodePNG(t, src))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	_, _, _, a := img.At(10, 10).RGBA()
	if a != 0xffff {
		t.Errorf("output pixel alpha = %#x, want fully opaque", a)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not an image", []byte("definitely not an image")},
		{"truncated jpeg header", []byte{0xff, 0xd8, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.data)
			if err == nil {
				t.Fatal("Normalize() succeeded on garbage input")
			}
			var procErr *ProcessingError
			if !errors.As(err, &procErr) {
				t.Errorf("error type = %T, want *ProcessingError", err)
			}
		})
	}
}

// buildEXIFSegment assembles a minimal APP1 EXIF payload: a little-endian
// TIFF header and a single-entry IFD holding the orientation tag.
func buildEXIFSegment(orientation uint16) []byte {
	var tiff bytes.Buffer
	tiff.WriteString("II")                                   // little-endian byte order
	binary.Write(&tiff, binary.LittleEndian, uint16(0x2a))   // TIFF magic
	binary.Write(&tiff, binary.LittleEndian, uint32(8))      // offset to IFD0
	binary.Write(&tiff, binary.LittleEndian, uint16(1))      // one IFD entry
	binary.Write(&tiff, binary.LittleEndian, uint16(0x0112)) // orientation tag
	binary.Write(&tiff, binary.LittleEndian, uint16(3))      // SHORT
	binary.Write(&tiff, binary.LittleEndian, uint32(1))      // count
	binary.Write(&tiff, binary.LittleEndian, orientation)
	binary.Write(&tiff, binary.LittleEndian, uint16(0)) // value padding
	binary.Write(&tiff, binary.LittleEndian, uint32(0)) // no next IFD

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	segment := make([]byte, 0, len(payload)+4)
	segment = append(segment, 0xff, 0xe1)
	length := uint16(len(payload) + 2)
	segment = append(segment, byte(length>>8), byte(length&0xff))
	return append(segment, payload...)
}

// withEXIFOrientation splices the orientation segment into a JPEG right
// after the SOI marker.
func withEXIFOrientation(t *testing.T, jpegData []byte, orientation uint16) []byte {
	t.Helper()
	if len(jpegData) < 2 || jpegData[0] != 0xff || jpegData[1] != 0xd8 {
		t.Fatal("test input is not a JPEG")
	}
	out := make([]byte, 0, len(jpegData)+64)
	out = append(out, jpegData[:2]...)
	out = append(out, buildEXIFSegment(orientation)...)
	return append(out, jpegData[2:]...)
}

func TestReadOrientation(t *testing.T) {
	plain := encodeJPEG(t, imaging.New(40, 30, color.NRGBA{A: 255}))
	if got := readOrientation(plain); got != 1 {
		t.Errorf("readOrientation(plain jpeg) = %d, want 1", got)
	}

	tagged := withEXIFOrientation(t, plain, 6)
	if got := readOrientation(tagged); got != 6 {
		t.Errorf("readOrientation(tagged jpeg) = %d, want 6", got)
	}
}

func TestNormalizeAppliesEXIFRotation(t *testing.T) {
	// stored sideways: 200x400 pixels tagged rotate-90-CW, so the intended
	// upright image is 400x200 landscape
	sideways := encodeJPEG(t, imaging.New(200, 400, color.NRGBA{R: 80, G: 80, B: 80, A: 255}))
	tagged := withEXIFOrientation(t, sideways, 6)

	out, err := Normalize(tagged)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	_, w, h := decodeDims(t, out)
	if w != 600 || h != 400 {
		t.Errorf("output dimensions = %dx%d, want 600x400 after EXIF rotation", w, h)
	}
	if got := readOrientation(out); got != 1 {
		t.Errorf("output retained orientation tag %d, want none", got)
	}
}

func TestApplyOrientation(t *testing.T) {
	// 3x1 strip: red, blue, green left to right
	src := imaging.New(3, 1, color.NRGBA{})
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(1, 0, color.NRGBA{B: 255, A: 255})
	src.Set(2, 0, color.NRGBA{G: 255, A: 255})

	// rotate-90-CW: the strip becomes a 1x3 column reading top to bottom
	// red, blue, green
	out := applyOrientation(src, 6)
	bounds := out.Bounds()
	if bounds.Dx() != 1 || bounds.Dy() != 3 {
		t.Fatalf("orientation 6 dimensions = %dx%d, want 1x3", bounds.Dx(), bounds.Dy())
	}
	r, _, _, _ := out.At(bounds.Min.X, bounds.Min.Y).RGBA()
	_, g, _, _ := out.At(bounds.Min.X, bounds.Min.Y+2).RGBA()
	if r == 0 {
		t.Error("orientation 6: expected red pixel at top of rotated column")
	}
	if g == 0 {
		t.Error("orientation 6: expected green pixel at bottom of rotated column")
	}

	// unknown and upright orientations leave the image alone
	for _, o := range []int{0, 1, 9} {
		same := applyOrientation(src, o)
		b := same.Bounds()
		if b.Dx() != 3 || b.Dy() != 1 {
			t.Errorf("orientation %d changed dimensions to %dx%d", o, b.Dx(), b.Dy())
		}
	}
}
