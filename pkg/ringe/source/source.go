// Package source loads translation units from disk or streams.
//
// Compressed inputs (.gz, .zst) are decompressed by extension. Text is
// decoded by byte order mark: a UTF-8 BOM is stripped and UTF-16 input is
// converted to UTF-8. Input without a BOM is passed through unchanged so
// that byte offsets match the file.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// File is a decoded translation unit.
type File struct {
	Name string
	Text string
}

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, path)
}

// Read decodes a translation unit from r. The name selects decompression
// by extension and is kept for diagnostics.
func Read(r io.Reader, name string) (*File, error) {
	data, err := readAll(r, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	text, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	return &File{Name: name, Text: text}, nil
}

// Compressed reports whether name has an extension Read decompresses.
func Compressed(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".zst":
		return true
	}
	return false
}

// BaseExt returns the extension of name with any compression extension
// removed, so "lex.c.gz" gives ".c".
func BaseExt(name string) string {
	if Compressed(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return filepath.Ext(name)
}

func readAll(r io.Reader, name string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return io.ReadAll(r)
	}
}

// Decode converts raw bytes to scanner text using the byte order mark.
func Decode(data []byte) (string, error) {
	if !hasBOM(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

var boms = [][]byte{
	{0xEF, 0xBB, 0xBF}, // UTF-8
	{0xFE, 0xFF},       // UTF-16BE
	{0xFF, 0xFE},       // UTF-16LE
}

func hasBOM(data []byte) bool {
	for _, bom := range boms {
		if bytes.HasPrefix(data, bom) {
			return true
		}
	}
	return false
}

// Line returns line n (1-based) of text without its terminator.
func Line(text string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	for i := 1; i < n; i++ {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 {
			return "", false
		}
		text = text[nl+1:]
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	return strings.TrimSuffix(text, "\r"), true
}
