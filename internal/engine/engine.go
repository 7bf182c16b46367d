// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine defines the boundary to the PDF parsing and serialization
// library. The merge pipeline only talks to the Engine, Document, and Page
// interfaces; the pdfcpu-backed implementation lives in pdfcpu.go.
package engine

import (
	"context"
	"errors"
)

var (
	// ErrEmptyDocument is returned when serializing a document with no pages.
	ErrEmptyDocument = errors.New("document has no pages")

	// ErrEncrypted is returned when loading an encrypted file without
	// LoadOptions.IgnoreEncryption.
	ErrEncrypted = errors.New("document is encrypted")

	// ErrEmptyInput is returned when loading zero bytes.
	ErrEmptyInput = errors.New("input is empty")

	// ErrNoHeader is returned when the %PDF- header is missing from the
	// first 1024 bytes of the input.
	ErrNoHeader = errors.New("missing %PDF- header")

	// ErrForeign is returned when a Document or Page created by another
	// Engine is passed in.
	ErrForeign = errors.New("document or page belongs to a different engine")
)

// LoadOptions controls how source bytes are parsed.
type LoadOptions struct {
	// IgnoreEncryption opens files flagged as encrypted with empty
	// passwords. Files that need a real password still fail to load.
	IgnoreEncryption bool
}

// Engine parses PDF bytes into page-addressable documents, copies pages
// between documents, and serializes documents back to bytes.
type Engine interface {
	// Create returns an empty document with no pages.
	Create() Document

	// Load parses data into a document.
	Load(ctx context.Context, data []byte, opts LoadOptions) (Document, error)

	// CopyPages copies the pages at the given zero-based indices of src,
	// in the order given, into the ownership of dst. The returned pages
	// must then be appended to dst, in order, before the next copy.
	CopyPages(ctx context.Context, dst, src Document, indices []int) ([]Page, error)

	// Serialize writes doc as a complete PDF file.
	Serialize(ctx context.Context, doc Document) ([]byte, error)
}

// Document is an in-memory parsed PDF owned by the Engine that made it.
type Document interface {
	// PageIndices returns the zero-based page indices in stored order.
	PageIndices() []int

	// PageCount returns the number of pages.
	PageCount() int

	// AppendPage adds a copied page to the end of the page list.
	AppendPage(p Page) error
}

// Page is a page copied out of a source document.
type Page interface {
	// Index is the zero-based position of the page in its source document.
	Index() int
}
