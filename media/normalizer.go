package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	// target canvases by orientation class
	PhotoLandscapeWidth  = 600
	PhotoLandscapeHeight = 400
	PhotoPortraitWidth   = 400
	PhotoPortraitHeight  = 600

	PhotoJpegQuality = 82
)

// ProcessingError reports a normalization failure with a human-readable
// cause. It aborts the profile save it occurred in.
type ProcessingError struct {
	Reason string
	Err    error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("image processing failed: %s: %v", e.Reason, e.Err)
	}
	return "image processing failed: " + e.Reason
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Normalize converts raw uploaded image bytes into the canonical stored
// form: decoded, EXIF-rotated upright, center-cropped to the orientation's
// target aspect ratio, Lanczos-resized to exactly 600x400 (landscape, width
// >= height) or 400x600 (portrait), and re-encoded as quality-82 JPEG.
//
// Alpha and palette information is deliberately flattened by the JPEG
// re-encode. The output carries no EXIF, so consumers must not re-apply
// rotation. The result is intended to overwrite the original upload.
func Normalize(raw []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &ProcessingError{Reason: "unreadable or corrupt image data", Err: err}
	}

	img = applyOrientation(img, readOrientation(raw))

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, &ProcessingError{Reason: fmt.Sprintf("invalid image dimensions %dx%d", width, height)}
	}

	targetWidth, targetHeight := PhotoPortraitWidth, PhotoPortraitHeight
	if width >= height {
		targetWidth, targetHeight = PhotoLandscapeWidth, PhotoLandscapeHeight
	}

	// Fill crops the longer dimension symmetrically around the center and
	// resizes to the exact target; it never pads
	normalized := imaging.Fill(img, targetWidth, targetHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, normalized, imaging.JPEG, imaging.JPEGQuality(PhotoJpegQuality)); err != nil {
		return nil, &ProcessingError{Reason: "JPEG re-encoding failed", Err: err}
	}
	return buf.Bytes(), nil
}
