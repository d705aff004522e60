package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxPhotoBytes is the decoded size limit of a photo
const DefaultMaxPhotoBytes = 1 << 20

var (
	// ErrNotDataURL is returned for values that are not base64 data URLs
	ErrNotDataURL = errors.New("photo must be a base64 data URL")
	// ErrNotImage is returned when the decoded bytes are not an image
	ErrNotImage = errors.New("photo is not an image")
	// ErrTooLarge is returned when the decoded photo exceeds the limit
	ErrTooLarge = errors.New("photo is too large")
)

// Photo is a decoded data URL
type Photo struct {
	// MIME is sniffed from the content, not taken from the URL header
	MIME string
	Data []byte
}

// DataURL encodes the photo back into a data URL
func (p Photo) DataURL() string {
	return EncodeDataURL(p.MIME, p.Data)
}

// EncodeDataURL builds "data:<mime>;base64,<data>"
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURL reports whether s looks like a base64 data URL
func IsDataURL(s string) bool {
	header, _, ok := strings.Cut(s, ",")
	return ok && strings.HasPrefix(header, "data:") && strings.HasSuffix(header, ";base64")
}

// ParsePhoto decodes a data URL and checks that it holds an image no larger
// than maxBytes. maxBytes <= 0 means DefaultMaxPhotoBytes.
func ParsePhoto(dataURL string, maxBytes int) (Photo, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPhotoBytes
	}
	if !IsDataURL(dataURL) {
		return Photo{}, ErrNotDataURL
	}
	_, payload, _ := strings.Cut(dataURL, ",")

	// Reject before decoding anything that cannot fit
	if base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return Photo{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Photo{}, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	if len(data) > maxBytes {
		return Photo{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return Photo{}, fmt.Errorf("%w: detected %s", ErrNotImage, mtype.String())
	}

	return Photo{MIME: baseMIME(mtype.String()), Data: data}, nil
}

func baseMIME(m string) string {
	base, _, _ := strings.Cut(m, ";")
	return strings.TrimSpace(base)
}
