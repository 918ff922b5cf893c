package ocr

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/abhisek/mathsolver/internal/llm"
)

var (
	ErrEmptyImage        = errors.New("image is empty")
	ErrImageTooLarge     = errors.New("image is too large")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrNoText            = errors.New("no text found in image")
)

// DefaultMaxImageBytes is the largest image accepted by default (10 MiB).
const DefaultMaxImageBytes = 10 << 20

// DefaultFormats are the accepted image subtypes.
var DefaultFormats = []string{"jpeg", "jpg", "png", "webp"}

// Image is an uploaded picture of a math problem.
type Image struct {
	// Name is where the image came from, usually a file name. Optional.
	Name     string
	MIMEType string
	Data     []byte
}

// Format returns the MIME subtype, e.g. "png" for "image/png".
func (i Image) Format() string {
	_, sub, ok := strings.Cut(i.MIMEType, "/")
	if !ok {
		return ""
	}
	sub, _, _ = strings.Cut(sub, ";")
	return strings.ToLower(strings.TrimSpace(sub))
}

func (i Image) toLLM() llm.Image {
	return llm.Image{MIMEType: i.MIMEType, Data: i.Data}
}

// Limits bound what ValidateImage accepts.
type Limits struct {
	MaxBytes int64
	Formats  []string
}

// DefaultLimits returns 10 MiB and the jpeg/png/webp formats.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes: DefaultMaxImageBytes,
		Formats:  slices.Clone(DefaultFormats),
	}
}

// ValidateImage checks img against lim and returns it with its MIME type
// filled in. A missing MIME type is sniffed from the data.
func ValidateImage(img Image, lim Limits) (Image, error) {
	if len(img.Data) == 0 {
		return img, ErrEmptyImage
	}
	if lim.MaxBytes > 0 && int64(len(img.Data)) > lim.MaxBytes {
		return img, fmt.Errorf("%w: %d bytes, limit %d", ErrImageTooLarge, len(img.Data), lim.MaxBytes)
	}
	if img.MIMEType == "" {
		img.MIMEType = http.DetectContentType(img.Data)
	}

	formats := lim.Formats
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	if !slices.Contains(formats, img.Format()) {
		return img, fmt.Errorf("%w: %s", ErrUnsupportedFormat, img.MIMEType)
	}
	return img, nil
}

// LoadImage reads an image file. The MIME type is sniffed from its content.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("reading image: %w", err)
	}
	img := Image{Name: filepath.Base(path), Data: data}
	if len(data) > 0 {
		img.MIMEType = http.DetectContentType(data)
	}
	return img, nil
}
