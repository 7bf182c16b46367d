// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/pdfmerge/pkg/types"
)

// headerWindow is how far into the input the %PDF- header may start.
const headerWindow = 1024

var pdfHeader = []byte("%PDF-")

// Pdfcpu implements Engine on top of github.com/pdfcpu/pdfcpu.
//
// A destination document holds the serialized result of every copy so far.
// CopyPages pulls the selected pages out of the source with api.Collect and
// merges them onto the destination with api.MergeRaw straight away, so a
// page that cannot be carried over fails the copy of its own source. The
// merged bytes become the destination once all copied pages are appended.
type Pdfcpu struct {
	strict bool
}

// NewPdfcpu returns a pdfcpu engine. pdfcpu's on-disk configuration
// directory is disabled so the engine never writes to the user's home.
func NewPdfcpu(cfg types.EngineConfig) *Pdfcpu {
	api.DisableConfigDir()
	return &Pdfcpu{strict: cfg.Strict}
}

// configuration returns a fresh pdfcpu configuration. pdfcpu records the
// running command in the configuration, so one is never shared between calls.
func (e *Pdfcpu) configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if e.strict {
		conf.ValidationMode = model.ValidationStrict
	}
	return conf
}

type pdfDocument struct {
	// raw is set for loaded documents only.
	raw []byte

	// count is the number of pages in raw, or committed to acc.
	count int

	// acc is the serialized destination; gen counts commits to it.
	acc []byte
	gen int

	// pending holds pages copied into a destination but not yet appended.
	pending *copyBatch
}

// copyBatch is the result of one CopyPages call on a destination.
type copyBatch struct {
	dst    *pdfDocument
	gen    int
	merged []byte
	size   int
	next   int
}

func (d *pdfDocument) PageIndices() []int {
	indices := make([]int, d.count)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

func (d *pdfDocument) PageCount() int { return d.count }

func (d *pdfDocument) AppendPage(p Page) error {
	pp, ok := p.(pdfPage)
	if !ok || pp.batch == nil || pp.batch.dst != d {
		return ErrForeign
	}
	b := pp.batch
	if b != d.pending || b.gen != d.gen {
		return fmt.Errorf("page %d was copied before a later copy and is stale", pp.index+1)
	}
	if pp.pos != b.next {
		return fmt.Errorf("page %d appended out of copy order", pp.index+1)
	}

	b.next++
	if b.next == b.size {
		d.acc = b.merged
		d.count += b.size
		d.gen++
		d.pending = nil
	}
	return nil
}

type pdfPage struct {
	batch *copyBatch
	pos   int
	index int
}

func (p pdfPage) Index() int { return p.index }

// Create returns an empty destination document.
func (e *Pdfcpu) Create() Document {
	return &pdfDocument{}
}

// Load reads, validates, and optimizes data. Encrypted files are decrypted
// with empty passwords when opts.IgnoreEncryption is set.
func (e *Pdfcpu) Load(ctx context.Context, data []byte, opts LoadOptions) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("parsing pdf: %w", ErrEmptyInput)
	}
	if !bytes.Contains(data[:min(len(data), headerWindow)], pdfHeader) {
		return nil, fmt.Errorf("parsing pdf: %w", ErrNoHeader)
	}

	pc, err := api.ReadValidateAndOptimize(bytes.NewReader(data), e.configuration())
	if err != nil {
		return nil, fmt.Errorf("parsing pdf: %w", err)
	}
	if pc.Encrypt != nil && !opts.IgnoreEncryption {
		return nil, ErrEncrypted
	}
	return &pdfDocument{raw: data, count: pc.PageCount}, nil
}

// CopyPages extracts the requested pages of src and merges them onto dst.
// Indices may repeat and may be in any order.
func (e *Pdfcpu) CopyPages(ctx context.Context, dst, src Document, indices []int) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	to, ok := dst.(*pdfDocument)
	if !ok {
		return nil, ErrForeign
	}
	from, ok := src.(*pdfDocument)
	if !ok {
		return nil, ErrForeign
	}
	if to.raw != nil {
		return nil, errors.New("copying into a loaded document is not supported")
	}
	if from.raw == nil {
		return nil, errors.New("copying from a destination document is not supported")
	}
	if b := to.pending; b != nil && b.next > 0 {
		return nil, fmt.Errorf("%d of %d copied pages not yet appended", b.size-b.next, b.size)
	}
	for _, i := range indices {
		if i < 0 || i >= from.count {
			return nil, fmt.Errorf("page index %d out of range [0, %d)", i, from.count)
		}
	}
	if len(indices) == 0 {
		return nil, nil
	}

	part, err := e.collect(from, indices)
	if err != nil {
		return nil, err
	}
	merged, err := e.mergeOnto(to, part)
	if err != nil {
		return nil, err
	}

	b := &copyBatch{dst: to, gen: to.gen, merged: merged, size: len(indices)}
	to.pending = b
	pages := make([]Page, len(indices))
	for pos, i := range indices {
		pages[pos] = pdfPage{batch: b, pos: pos, index: i}
	}
	return pages, nil
}

// Serialize writes doc as a PDF. A loaded document is re-emitted through
// pdfcpu; a destination returns the pages appended to it so far.
func (e *Pdfcpu) Serialize(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := doc.(*pdfDocument)
	if !ok {
		return nil, ErrForeign
	}
	if d.count == 0 {
		return nil, ErrEmptyDocument
	}
	if d.raw != nil {
		return e.mergeRaw([]io.ReadSeeker{bytes.NewReader(d.raw)})
	}
	if b := d.pending; b != nil && b.next > 0 {
		return nil, fmt.Errorf("%d of %d copied pages not yet appended", b.size-b.next, b.size)
	}
	return bytes.Clone(d.acc), nil
}

// collect extracts the selected pages of src. A selection covering the
// whole source in stored order is passed through untouched.
func (e *Pdfcpu) collect(src *pdfDocument, indices []int) ([]byte, error) {
	if isWhole(indices, src.count) {
		return src.raw, nil
	}

	selected := make([]string, len(indices))
	for i, idx := range indices {
		selected[i] = strconv.Itoa(idx + 1)
	}

	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(src.raw), &buf, selected, e.configuration()); err != nil {
		return nil, fmt.Errorf("collecting pages: %w", err)
	}
	return buf.Bytes(), nil
}

// mergeOnto appends part to the committed pages of dst and returns the
// result without changing dst.
func (e *Pdfcpu) mergeOnto(dst *pdfDocument, part []byte) ([]byte, error) {
	rsc := []io.ReadSeeker{bytes.NewReader(part)}
	if dst.count > 0 {
		rsc = []io.ReadSeeker{bytes.NewReader(dst.acc), bytes.NewReader(part)}
	}
	return e.mergeRaw(rsc)
}

// mergeRaw runs api.MergeRaw and, in strict mode, validates the result
// strictly. MergeRaw itself always validates its inputs relaxed.
func (e *Pdfcpu) mergeRaw(rsc []io.ReadSeeker) ([]byte, error) {
	var buf bytes.Buffer
	if err := api.MergeRaw(rsc, &buf, false, e.configuration()); err != nil {
		return nil, fmt.Errorf("copying pages: %w", err)
	}
	if e.strict {
		if err := api.Validate(bytes.NewReader(buf.Bytes()), e.configuration()); err != nil {
			return nil, fmt.Errorf("strict validation of copied pages: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func isWhole(indices []int, count int) bool {
	if len(indices) != count {
		return false
	}
	for i, idx := range indices {
		if idx != i {
			return false
		}
	}
	return true
}
