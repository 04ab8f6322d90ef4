// Package attachment loads supporting materials sent alongside a prompt.
//
// Images travel inline as base64 data URLs; documents are only named in the
// request, their content is never uploaded.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxSize is the per-file upload limit
const MaxSize = 10 * 1024 * 1024

// Accepted MIME types
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEGIF  = "image/gif"
	MIMEWEBP = "image/webp"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file exceeds 10MB limit")
)

var extensionTypes = map[string]string{
	".pdf":  MIMEPDF,
	".docx": MIMEDOCX,
	".jpg":  MIMEJPEG,
	".jpeg": MIMEJPEG,
	".png":  MIMEPNG,
	".gif":  MIMEGIF,
	".webp": MIMEWEBP,
}

// File is one attachment ready for a request
type File struct {
	ID   string
	Name string
	MIME string
	Size int64
	// Data is a base64 data URL, or a plain reference for bundled samples
	Data string
}

// IsImage reports whether the file is sent inline
func (f File) IsImage() bool {
	return strings.HasPrefix(f.MIME, "image/")
}

// Bytes decodes the data URL payload
func (f File) Bytes() ([]byte, error) {
	_, payload, ok := strings.Cut(f.Data, ";base64,")
	if !ok {
		return nil, fmt.Errorf("attachment %s has no inline data", f.Name)
	}
	return base64.StdEncoding.DecodeString(payload)
}

// Accepted reports whether mime is in the accept list
func Accepted(mime string) bool {
	for _, m := range extensionTypes {
		if m == mime {
			return true
		}
	}
	return false
}

// TypeOf resolves a MIME type from the file extension
func TypeOf(name string) (string, bool) {
	mime, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]
	return mime, ok
}

// New validates raw content and builds a File
// Images must sniff as the type their extension claims
func New(name string, data []byte) (File, error) {
	mime, ok := TypeOf(name)
	if !ok {
		return File{}, fmt.Errorf("%s: %w", name, ErrUnsupportedType)
	}
	if len(data) > MaxSize {
		return File{}, fmt.Errorf("%s: %w", name, ErrTooLarge)
	}
	if strings.HasPrefix(mime, "image/") {
		if sniffed := http.DetectContentType(data); sniffed != mime {
			return File{}, fmt.Errorf("%s: content is %s, not %s: %w", name, sniffed, mime, ErrUnsupportedType)
		}
	}

	return File{
		ID:   uuid.NewString(),
		Name: filepath.Base(name),
		MIME: mime,
		Size: int64(len(data)),
		Data: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Load reads and validates a file from disk
func Load(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat attachment: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s: is a directory: %w", path, ErrUnsupportedType)
	}
	// Reject before reading a huge file into memory
	if info.Size() > MaxSize {
		return File{}, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read attachment: %w", err)
	}
	return New(path, data)
}

// Rejected is a file that failed validation
type Rejected struct {
	Path string
	Err  error
}

// LoadAll loads every path, keeping valid files and reporting the rest
func LoadAll(paths []string) ([]File, []Rejected) {
	files := make([]File, 0, len(paths))
	var rejected []Rejected
	for _, p := range paths {
		f, err := Load(p)
		if err != nil {
			rejected = append(rejected, Rejected{Path: p, Err: err})
			continue
		}
		files = append(files, f)
	}
	return files, rejected
}

// Reference builds a by-name attachment with no inline content
func Reference(name, mime string, size int64) File {
	return File{
		ID:   uuid.NewString(),
		Name: name,
		MIME: mime,
		Size: size,
		Data: "/" + name,
	}
}
