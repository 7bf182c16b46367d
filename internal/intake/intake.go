// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intake turns user-selected files into SourceFiles and decides
// whether each one looks like a PDF.
package intake

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/pdfmerge/pkg/types"
)

// sniffLen is the number of leading bytes used to detect the content type.
const sniffLen = 512

// IsValid reports whether f declares the PDF media type and its name has a
// .pdf extension (case-insensitive). Both must hold.
func IsValid(f types.SourceFile) bool {
	if f.ContentType != types.MediaTypePDF {
		return false
	}
	ext := strings.TrimPrefix(filepath.Ext(f.Name), ".")
	return strings.EqualFold(ext, "pdf")
}

// Partition splits files into those that pass IsValid and those that do
// not, preserving order within each group.
func Partition(files []types.SourceFile) (valid, rejected []types.SourceFile) {
	for _, f := range files {
		if IsValid(f) {
			valid = append(valid, f)
		} else {
			rejected = append(rejected, f)
		}
	}
	return valid, rejected
}

// FromPath builds a SourceFile for the file at path. The declared content
// type is sniffed from the file's leading bytes.
func FromPath(path string) (types.SourceFile, error) {
	fh, err := os.Open(path)
	if err != nil {
		return types.SourceFile{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return types.SourceFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return types.SourceFile{}, fmt.Errorf("%s is a directory", path)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(fh, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return types.SourceFile{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return types.SourceFile{
		ID:          uuid.NewString(),
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: detectContentType(head[:n]),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromBytes builds an in-memory SourceFile with the given declared
// content type. An empty contentType is sniffed from data.
func FromBytes(name, contentType string, data []byte) types.SourceFile {
	if contentType == "" {
		contentType = detectContentType(data)
	}
	return types.SourceFile{
		ID:          uuid.NewString(),
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FromPaths builds SourceFiles for every path, stopping at the first error.
func FromPaths(paths []string) ([]types.SourceFile, error) {
	files := make([]types.SourceFile, 0, len(paths))
	for _, p := range paths {
		f, err := FromPath(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// FromPathsLenient builds a SourceFile for every path. A path that cannot
// be read still yields an entry, named after the path, whose Open returns
// the original error.
func FromPathsLenient(paths []string) []types.SourceFile {
	files := make([]types.SourceFile, 0, len(paths))
	for _, p := range paths {
		f, err := FromPath(p)
		if err != nil {
			f = Unreadable(p, err)
		}
		files = append(files, f)
	}
	return files
}

// Unreadable returns a SourceFile for path that fails with err when opened.
func Unreadable(path string, err error) types.SourceFile {
	return types.SourceFile{
		ID:   uuid.NewString(),
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return nil, err
		},
	}
}

func detectContentType(head []byte) string {
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
