package pattern

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/ryijy/internal/security"
)

// CompressedSuffix marks pattern files written with xz compression.
const CompressedSuffix = ".xz"

// maxDecodedSize bounds a decompressed document.
const maxDecodedSize = 256 * 1024 * 1024

// xzMagic is the stream header magic of the xz container format.
var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// Encode writes doc as indented JSON, xz-compressed when compress is set.
func Encode(w io.Writer, doc *Document, compress bool) error {
	if !compress {
		return encodeJSON(w, doc)
	}

	xzw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if err := encodeJSON(xzw, doc); err != nil {
		_ = xzw.Close()
		return err
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode pattern: %w", err)
	}
	return nil
}

// Decode reads a document, transparently decompressing xz input, and validates it.
func Decode(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br

	if head, _ := br.Peek(len(xzMagic)); bytes.Equal(head, xzMagic) {
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		src = xzr
	}

	var doc Document
	dec := json.NewDecoder(security.NewLimitedReader(src, maxDecodedSize))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode pattern: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save writes doc to path, compressing when path ends in CompressedSuffix.
// The file is written to a temporary sibling and renamed into place.
func Save(path string, doc *Document) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ryijy-*")
	if err != nil {
		return fmt.Errorf("failed to create pattern file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := Encode(tmp, doc, IsCompressed(path)); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close pattern file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write pattern file: %w", err)
	}
	return nil
}

// Load reads and validates the pattern at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path) // #nosec G304 - User-specified pattern path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open pattern: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// IsCompressed reports whether path names an xz-compressed pattern.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedSuffix)
}
