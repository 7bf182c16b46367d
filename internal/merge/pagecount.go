// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdfmerge/pkg/types"
)

// PageCount returns the page count of f, or 0 if f cannot be read or parsed.
// A zero therefore means either an empty document or an unreadable one.
func (p *Pipeline) PageCount(ctx context.Context, f types.SourceFile) int {
	doc, err := p.load(ctx, f)
	if err != nil {
		p.Logger.WithFields(logrus.Fields{"file": f.Name}).WithError(err).Debug("page count unavailable")
		return 0
	}
	return doc.PageCount()
}

// Annotate counts the pages of every file and caches the result in its PageCount.
func (p *Pipeline) Annotate(ctx context.Context, files []types.SourceFile) {
	for i := range files {
		n := p.PageCount(ctx, files[i])
		files[i].PageCount = &n
	}
}
