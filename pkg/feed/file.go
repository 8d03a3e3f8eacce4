package feed

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/assemblyline/pkg/record"
)

// LZ4Extension marks feed files stored as an lz4 frame.
const LZ4Extension = ".lz4"

// IsCompressed reports whether path names an lz4-framed feed.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), LZ4Extension)
}

// readCloser closes the decompressor's source file.
type readCloser struct {
	io.Reader
	file *os.File
}

func (rc *readCloser) Close() error {
	return rc.file.Close()
}

// Open opens a feed file, decompressing it when it ends in .lz4.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}

	if !IsCompressed(path) {
		return file, nil
	}

	return &readCloser{Reader: lz4.NewReader(file), file: file}, nil
}

// writeCloser flushes the compressor before closing the file.
type writeCloser struct {
	*lz4.Writer
	file *os.File
}

func (wc *writeCloser) Close() error {
	return errors.Join(wc.Writer.Close(), wc.file.Close())
}

// Create creates or truncates a feed file, compressing it when it ends in
// .lz4.
func Create(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create feed: %w", err)
	}

	if !IsCompressed(path) {
		return file, nil
	}

	return &writeCloser{Writer: lz4.NewWriter(file), file: file}, nil
}

// Load reads every record of the feed file at path.
func Load(path string) ([]*record.Record, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	records, err := ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return records, nil
}

// Save writes seq to the feed file at path.
func Save(path string, seq iter.Seq[*record.Record]) error {
	dst, err := Create(path)
	if err != nil {
		return err
	}

	err = NewWriter(dst).WriteAll(seq)

	return errors.Join(err, dst.Close())
}
