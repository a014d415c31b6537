package nsfix

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/flate"
)

// xmlSuffix marks the entries that are canonicalized. Matching ignores case.
const xmlSuffix = ".xml"

// IsXMLPart reports whether an entry name is treated as XML
func IsXMLPart(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), xmlSuffix)
}

// ContainerReader reads the entries of a ZIP container in stored order
type ContainerReader struct {
	reader *zip.Reader
	closer io.Closer
}

// NewContainerReader creates a reader over an in-memory or seekable archive
func NewContainerReader(r io.ReaderAt, size int64) (*ContainerReader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)
	return &ContainerReader{reader: zr}, nil
}

// OpenContainer opens the container at path. Missing files yield ErrNotFound;
// directories, other non-regular files and files that are not ZIP archives
// yield ErrInvalidContainer.
func OpenContainer(path string) (*ContainerReader, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, NewContainerError("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s: not a regular file", ErrInvalidContainer, path)
	}

	rc, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidContainer, path, err)
		}
		return nil, NewContainerError("open", path, err)
	}
	rc.RegisterDecompressor(zip.Deflate, flate.NewReader)
	return &ContainerReader{reader: &rc.Reader, closer: rc}, nil
}

// IsContainer reports whether path can be opened as a ZIP archive
func IsContainer(path string) bool {
	cr, err := OpenContainer(path)
	if err != nil {
		return false
	}
	_ = cr.Close()
	return true
}

// Entries returns the archive members in the order they are stored
func (cr *ContainerReader) Entries() []*zip.File {
	return cr.reader.File
}

// Comment returns the archive comment
func (cr *ContainerReader) Comment() string {
	return cr.reader.Comment
}

// ListParts returns the member names in stored order
func (cr *ContainerReader) ListParts() []string {
	parts := make([]string, 0, len(cr.reader.File))
	for _, file := range cr.reader.File {
		parts = append(parts, file.Name)
	}
	return parts
}

// ReadEntry returns the decompressed payload of one member
func (cr *ContainerReader) ReadEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", file.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", file.Name, err)
	}

	return content, nil
}

// Close releases the underlying file, if the reader owns one
func (cr *ContainerReader) Close() error {
	if cr.closer == nil {
		return nil
	}
	return cr.closer.Close()
}
