// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records and configuration shared by the intake,
// merge, download, and history stages.
package types

import (
	"fmt"
	"io"
)

// MediaTypePDF is the declared content type of a PDF file.
const MediaTypePDF = "application/pdf"

// SourceFile is one user-selected input. The pipeline borrows it read-only
// for the duration of a single merge.
type SourceFile struct {
	// ID is a stable identifier assigned at intake.
	ID string `json:"id" yaml:"id"`

	// Name is the display name, normally the base name of the file.
	Name string `json:"name" yaml:"name"`

	// Size is the byte length of the file.
	Size int64 `json:"size" yaml:"size"`

	// ContentType is the declared media type (e.g. "application/pdf").
	ContentType string `json:"content_type" yaml:"content_type"`

	// PageCount caches the page count of the file. Nil until counted.
	PageCount *int `json:"page_count,omitempty" yaml:"page_count,omitempty"`

	// PreviewPath references a cached preview image, if one was rendered.
	PreviewPath string `json:"preview_path,omitempty" yaml:"preview_path,omitempty"`

	// Open returns a reader over the raw bytes of the file.
	Open func() (io.ReadCloser, error) `json:"-" yaml:"-"`
}

// ReadAll reads the file's raw bytes fully into memory.
func (f SourceFile) ReadAll() ([]byte, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("file %q has no byte source", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	return data, nil
}

// Pages returns the cached page count and whether it is known.
func (f SourceFile) Pages() (int, bool) {
	if f.PageCount == nil {
		return 0, false
	}
	return *f.PageCount, true
}
