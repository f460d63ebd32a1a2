package loader

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// ErrUnsupported is returned for uploads that can not be turned into text,
// such as images which would need OCR.
var ErrUnsupported = errors.New("unsupported file type")

// FileType is the coarse category of an uploaded file.
type FileType string

const (
	FileTypeText   FileType = "text"
	FileTypeImage  FileType = "image"
	FileTypeBinary FileType = "binary"
)

// Classify returns the category of a file from its content type. When the
// content type is empty or generic it is sniffed from data.
func Classify(data []byte, contentType string) FileType {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if contentType == "" || err != nil || mediaType == "application/octet-stream" {
		mediaType, _, _ = mime.ParseMediaType(http.DetectContentType(data))
	}

	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return FileTypeImage
	case strings.HasPrefix(mediaType, "text/"),
		mediaType == "application/json",
		mediaType == "application/xml",
		mediaType == "application/x-yaml":
		return FileTypeText
	default:
		return FileTypeBinary
	}
}

// DecodeText turns uploaded bytes into text.
//
// Images are rejected with ErrUnsupported. A charset parameter in
// contentType other than UTF-8 is honoured. Everything else is read as
// UTF-8; invalid sequences are replaced with U+FFFD and NUL bytes are
// dropped, so decoding never fails for non-image input.
func DecodeText(data []byte, contentType string) (string, error) {
	if Classify(data, contentType) == FileTypeImage {
		return "", fmt.Errorf("%w: image text recognition is not available", ErrUnsupported)
	}

	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if charset := strings.ToLower(params["charset"]); charset != "" && charset != "utf-8" && charset != "utf8" {
			if enc, err := htmlindex.Get(charset); err == nil {
				if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
					data = decoded
				}
			}
		}
	}

	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	return strings.ReplaceAll(text, "\x00", ""), nil
}

// Extension returns the lowercase extension of name without the dot, or
// "bin" when name has none.
func Extension(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return "bin"
	}
	return ext
}
