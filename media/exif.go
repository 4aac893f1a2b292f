package media

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// readOrientation extracts the EXIF orientation tag from the raw bytes.
// Missing or malformed EXIF yields 1 (upright), which applies no transform.
func readOrientation(raw []byte) int {
	exifData, err := exif.Decode(bytes.NewReader(raw))
	if err != nil || exifData == nil {
		return 1
	}
	tag, err := exifData.Get(exif.Orientation)
	if err != nil || tag == nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil || orientation < 1 || orientation > 8 {
		return 1
	}
	return orientation
}

// applyOrientation rewrites the pixel data so it matches the intended visual
// orientation. EXIF rotations are expressed clockwise; imaging rotates
// counter-clockwise, hence 6 -> Rotate270 and 8 -> Rotate90.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
