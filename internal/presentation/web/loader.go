package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// DefaultMaxResourceSize bounds a decoded resource
const DefaultMaxResourceSize = 4 << 20

var (
	// ErrResourceTooLarge reports a resource over the loader's limit
	ErrResourceTooLarge = errors.New("resource too large")
	// ErrNotRenderable reports a resource that is not text
	ErrNotRenderable = errors.New("resource is not renderable")
)

// Resource is a decoded view resource
type Resource struct {
	Path    string
	MIME    string
	Charset string
	Data    []byte // UTF-8
}

// IsHTML reports whether the resource is an HTML document
func (r *Resource) IsHTML() bool {
	return strings.HasPrefix(r.MIME, "text/html")
}

// Loader reads view resources from disk
type Loader struct {
	MaxSize int64
}

// NewLoader creates a loader with the default size limit
func NewLoader() *Loader {
	return &Loader{MaxSize: DefaultMaxResourceSize}
}

// Load reads, decompresses, type-checks and transcodes path
func (l *Loader) Load(path string) (*Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip resource: %w", err)
		}
		defer gz.Close()
		r = gz
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd resource: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	maxSize := l.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxResourceSize
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read resource: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrResourceTooLarge, path, maxSize)
	}

	mtype := mimetype.Detect(data)
	if !isText(mtype) {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotRenderable, path, mtype.String())
	}

	res := &Resource{Path: path, MIME: mtype.String(), Charset: "utf-8", Data: data}
	if utf8.Valid(data) {
		return res, nil
	}

	res.Charset = DetectCharset(data)
	decoded, err := charset.NewReader(bytes.NewReader(data), "text/plain; charset="+res.Charset)
	if err != nil {
		return nil, fmt.Errorf("failed to transcode %s from %s: %w", path, res.Charset, err)
	}
	if res.Data, err = io.ReadAll(decoded); err != nil {
		return nil, fmt.Errorf("failed to transcode %s from %s: %w", path, res.Charset, err)
	}
	return res, nil
}

// DetectCharset guesses the charset of data
func DetectCharset(data []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
