package imaging

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	log "github.com/sirupsen/logrus"
)

// CameraInfo summarizes the capture settings recorded in EXIF metadata.
// Fields missing from the source are left at their zero value.
type CameraInfo struct {
	Make         string  `json:"make,omitempty"`
	Model        string  `json:"model,omitempty"`
	LensModel    string  `json:"lens_model,omitempty"`
	FNumber      float64 `json:"f_number,omitempty"`
	ExposureTime string  `json:"exposure_time,omitempty"`
	ISO          int     `json:"iso,omitempty"`
	FocalLength  float64 `json:"focal_length_mm,omitempty"`
	Flash        *int    `json:"flash,omitempty"`
	WhiteBalance *int    `json:"white_balance,omitempty"`
	Orientation  int     `json:"orientation,omitempty"`
	DateTime     string  `json:"date_time,omitempty"`
}

// Empty reports whether no EXIF field was recovered.
func (c CameraInfo) Empty() bool {
	return c == CameraInfo{}
}

// CameraSummary reads EXIF metadata from a JPEG stream or a TIFF-based RAW
// container. Data without readable metadata yields an empty CameraInfo.
func CameraSummary(data []byte) CameraInfo {
	var info CameraInfo

	x, err := exif.Decode(bytes.NewReader(data))
	if x == nil {
		log.WithError(err).Debug("no EXIF metadata")
		return info
	}
	if err != nil {
		// Partial metadata is still worth reporting.
		log.WithError(err).Debug("EXIF metadata partially decoded")
	}

	info.Make = exifString(x, exif.Make)
	info.Model = exifString(x, exif.Model)
	info.LensModel = exifString(x, exif.LensModel)
	info.FNumber = exifFloat(x, exif.FNumber)
	info.FocalLength = exifFloat(x, exif.FocalLength)
	info.ISO, _ = exifInt(x, exif.ISOSpeedRatings)
	info.Orientation, _ = exifInt(x, exif.Orientation)
	if v, ok := exifInt(x, exif.Flash); ok {
		info.Flash = &v
	}
	if v, ok := exifInt(x, exif.WhiteBalance); ok {
		info.WhiteBalance = &v
	}
	if num, den, ok := exifRat(x, exif.ExposureTime); ok {
		info.ExposureTime = formatExposure(num, den)
	}
	if t, err := x.DateTime(); err == nil {
		info.DateTime = t.Format("2006-01-02T15:04:05")
	}
	return info
}

func exifString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func exifInt(x *exif.Exif, name exif.FieldName) (int, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	v, err := tag.Int(0)
	if err != nil {
		return 0, false
	}
	return v, true
}

func exifRat(x *exif.Exif, name exif.FieldName) (int64, int64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, 0, false
	}
	return num, den, true
}

func exifFloat(x *exif.Exif, name exif.FieldName) float64 {
	num, den, ok := exifRat(x, name)
	if !ok {
		return 0
	}
	return math.Round(float64(num)/float64(den)*100) / 100
}

// formatExposure renders a shutter speed the way cameras display it:
// "1/250" below one second, "2.5s" otherwise.
func formatExposure(num, den int64) string {
	if num <= 0 {
		return ""
	}
	if num >= den {
		return fmt.Sprintf("%gs", math.Round(float64(num)/float64(den)*10)/10)
	}
	return fmt.Sprintf("1/%d", int64(math.Round(float64(den)/float64(num))))
}
