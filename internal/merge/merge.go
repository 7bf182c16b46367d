// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge concatenates the pages of an ordered list of PDF files into
// a single document and counts the pages of files.
//
// A merge is all-or-nothing: the first input that cannot be read, parsed,
// or copied aborts the run with a *ProcessingError naming that input, and
// no output is returned.
package merge

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pdfmerge/internal/engine"
	"github.com/pdiddy/pdfmerge/pkg/types"
)

// ErrNoFiles is returned when Merge is called with an empty list.
var ErrNoFiles = errors.New("no files to merge")

// ProcessingError reports the input that stopped a merge.
type ProcessingError struct {
	// FileName is the display name of the offending input.
	FileName string

	// Index is the position of the input in the merge list.
	Index int

	// Err is the underlying read, parse, or copy failure.
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing %s: %v", e.FileName, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Result is the outcome of a successful merge.
type Result struct {
	// Data is the serialized merged PDF.
	Data []byte

	// Pages is the number of pages in Data.
	Pages int

	// Files is the number of inputs merged.
	Files int
}

// Pipeline runs merges against an Engine.
type Pipeline struct {
	Engine engine.Engine
	Logger *logrus.Logger

	// Concurrency is the number of inputs parsed at once. Values below 2
	// process inputs strictly one after another.
	Concurrency int

	// LoadOptions is passed to the engine for every input.
	LoadOptions engine.LoadOptions
}

// NewPipeline returns a sequential pipeline that loads encrypted inputs on
// a best-effort basis. A nil logger discards output.
func NewPipeline(e engine.Engine, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Pipeline{
		Engine:      e,
		Logger:      logger,
		Concurrency: 1,
		LoadOptions: engine.LoadOptions{IgnoreEncryption: true},
	}
}

// Merge appends every page of every file, in list order, to a new document
// and serializes it.
func (p *Pipeline) Merge(ctx context.Context, files []types.SourceFile) (*Result, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if p.Concurrency > 1 && len(files) > 1 {
		return p.mergeParallel(ctx, files)
	}

	out := p.Engine.Create()
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := p.load(ctx, f)
		if err != nil {
			return nil, p.fail(i, f, err)
		}
		if err := p.appendAll(ctx, out, doc); err != nil {
			return nil, p.fail(i, f, err)
		}
		p.Logger.WithFields(logrus.Fields{
			"file":  f.Name,
			"index": i,
			"pages": doc.PageCount(),
		}).Debug("appended")
	}
	return p.finish(ctx, out, len(files))
}

// mergeParallel parses inputs concurrently and appends their pages in list
// order once every input has loaded. On failure the error names the
// lowest-index input that failed on its own account.
func (p *Pipeline) mergeParallel(ctx context.Context, files []types.SourceFile) (*Result, error) {
	docs := make([]engine.Document, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Concurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			doc, err := p.load(gctx, f)
			if err != nil {
				errs[i] = err
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		for i, e := range errs {
			if e != nil && !errors.Is(e, context.Canceled) {
				return nil, p.fail(i, files[i], e)
			}
		}
		return nil, err
	}

	out := p.Engine.Create()
	for i, doc := range docs {
		if err := p.appendAll(ctx, out, doc); err != nil {
			return nil, p.fail(i, files[i], err)
		}
	}
	return p.finish(ctx, out, len(files))
}

func (p *Pipeline) load(ctx context.Context, f types.SourceFile) (engine.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := f.ReadAll()
	if err != nil {
		return nil, err
	}
	return p.Engine.Load(ctx, data, p.LoadOptions)
}

func (p *Pipeline) appendAll(ctx context.Context, out, doc engine.Document) error {
	pages, err := p.Engine.CopyPages(ctx, out, doc, doc.PageIndices())
	if err != nil {
		return fmt.Errorf("copying pages: %w", err)
	}
	for _, page := range pages {
		if err := out.AppendPage(page); err != nil {
			return fmt.Errorf("appending page %d: %w", page.Index()+1, err)
		}
	}
	return nil
}

func (p *Pipeline) finish(ctx context.Context, out engine.Document, n int) (*Result, error) {
	data, err := p.Engine.Serialize(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("serializing merged document: %w", err)
	}
	p.Logger.WithFields(logrus.Fields{
		"files": n,
		"pages": out.PageCount(),
		"bytes": len(data),
	}).Info("merge complete")
	return &Result{Data: data, Pages: out.PageCount(), Files: n}, nil
}

func (p *Pipeline) fail(i int, f types.SourceFile, err error) error {
	p.Logger.WithFields(logrus.Fields{
		"file":  f.Name,
		"index": i,
	}).WithError(err).Error("merge aborted")
	return &ProcessingError{FileName: f.Name, Index: i, Err: err}
}
