// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdfmerge/internal/intake"
	"github.com/pdiddy/pdfmerge/pkg/types"
)

func TestPageCount(t *testing.T) {
	unreadable := pdfFile("locked.pdf", "x")
	unreadable.Open = func() (io.ReadCloser, error) { return nil, errors.New("permission denied") }

	tests := []struct {
		name string
		file types.SourceFile
		want int
	}{
		{name: "one page", file: pdfFile("a.pdf", "a"), want: 1},
		{name: "three pages", file: pdfFile("b.pdf", "1", "2", "3"), want: 3},
		{name: "corrupt returns zero", file: corruptFile("bad.pdf"), want: 0},
		{name: "not a pdf returns zero", file: intake.FromBytes("x.pdf", "", []byte("plain text")), want: 0},
		{name: "unreadable returns zero", file: unreadable, want: 0},
		{name: "zero bytes returns zero", file: intake.FromBytes("empty.pdf", types.MediaTypePDF, nil), want: 0},
	}

	p := testPipeline(1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withTimeout(t, func() {
				assert.NotPanics(t, func() {
					assert.Equal(t, tt.want, p.PageCount(context.Background(), tt.file))
				})
			})
		})
	}
}

func TestAnnotate(t *testing.T) {
	files := []types.SourceFile{
		pdfFile("a.pdf", "a", "b"),
		corruptFile("bad.pdf"),
	}
	testPipeline(1).Annotate(context.Background(), files)

	n, ok := files[0].Pages()
	require.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = files[1].Pages()
	require.True(t, ok)
	assert.Equal(t, 0, n)
}
