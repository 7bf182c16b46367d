// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdfmerge/internal/engine"
	"github.com/pdiddy/pdfmerge/internal/intake"
	"github.com/pdiddy/pdfmerge/internal/pdftest"
	"github.com/pdiddy/pdfmerge/pkg/types"
)

// --- test helpers ---

func testPipeline(concurrency int) *Pipeline {
	p := NewPipeline(engine.NewPdfcpu(types.EngineConfig{}), nil)
	p.Concurrency = concurrency
	return p
}

func pdfFile(name string, markers ...string) types.SourceFile {
	return intake.FromBytes(name, types.MediaTypePDF, pdftest.Build(markers...))
}

func corruptFile(name string) types.SourceFile {
	return intake.FromBytes(name, types.MediaTypePDF, pdftest.Corrupt())
}

// countingFile wraps f so every Open is recorded in opens.
func countingFile(f types.SourceFile, opens map[string]int) types.SourceFile {
	open := f.Open
	f.Open = func() (io.ReadCloser, error) {
		opens[f.Name]++
		return open()
	}
	return f
}

func markers(t *testing.T, data []byte) []string {
	t.Helper()
	got, err := pdftest.Markers(data)
	require.NoError(t, err)
	return got
}

// --- tests ---

func TestMergeSinglePagesInOrder(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("%d files", n), func(t *testing.T) {
			var files []types.SourceFile
			var want []string
			for i := 0; i < n; i++ {
				m := fmt.Sprintf("f%d", i)
				files = append(files, pdfFile(m+".pdf", m))
				want = append(want, m)
			}

			res, err := testPipeline(1).Merge(context.Background(), files)
			require.NoError(t, err)

			assert.Equal(t, n, res.Pages)
			assert.Equal(t, n, res.Files)
			if diff := cmp.Diff(want, markers(t, res.Data)); diff != "" {
				t.Errorf("page order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeMultiPageFiles(t *testing.T) {
	files := []types.SourceFile{
		pdfFile("p.pdf", "p1", "p2", "p3"),
		pdfFile("q.pdf", "q1", "q2"),
	}

	res, err := testPipeline(1).Merge(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Pages)
	assert.Equal(t, []string{"p1", "p2", "p3", "q1", "q2"}, markers(t, res.Data))
}

func TestMergeSingleFilePreservesContent(t *testing.T) {
	res, err := testPipeline(1).Merge(context.Background(), []types.SourceFile{
		pdfFile("only.pdf", "one", "two"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, markers(t, res.Data))
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	data := pdftest.Build("a", "b")
	orig := bytes.Clone(data)
	f := intake.FromBytes("a.pdf", types.MediaTypePDF, data)

	_, err := testPipeline(1).Merge(context.Background(), []types.SourceFile{f, f})
	require.NoError(t, err)
	assert.Equal(t, orig, data)
}

func TestMergeNoFiles(t *testing.T) {
	res, err := testPipeline(1).Merge(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFiles)
	assert.Nil(t, res)
}

func TestMergeCorruptFileAborts(t *testing.T) {
	for _, concurrency := range []int{1, 3} {
		for _, pos := range []int{0, 1, 2} {
			t.Run(fmt.Sprintf("concurrency %d position %d", concurrency, pos), func(t *testing.T) {
				files := []types.SourceFile{
					pdfFile("a.pdf", "a"),
					pdfFile("b.pdf", "b"),
					pdfFile("c.pdf", "c"),
				}
				files[pos] = corruptFile("broken.pdf")

				res, err := testPipeline(concurrency).Merge(context.Background(), files)
				require.Error(t, err)
				assert.Nil(t, res, "no partial output on failure")

				var perr *ProcessingError
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, "broken.pdf", perr.FileName)
				assert.Equal(t, pos, perr.Index)
				assert.NotNil(t, perr.Unwrap())
				assert.Contains(t, err.Error(), "broken.pdf")
			})
		}
	}
}

func TestMergeStopsAtFirstFailure(t *testing.T) {
	opens := map[string]int{}
	files := []types.SourceFile{
		countingFile(pdfFile("a.pdf", "a"), opens),
		countingFile(corruptFile("bad.pdf"), opens),
		countingFile(pdfFile("c.pdf", "c"), opens),
	}

	_, err := testPipeline(1).Merge(context.Background(), files)
	require.Error(t, err)

	assert.Equal(t, 1, opens["a.pdf"])
	assert.Equal(t, 1, opens["bad.pdf"])
	assert.Zero(t, opens["c.pdf"], "files after the failure are not read")
}

func TestMergeReadFailure(t *testing.T) {
	f := pdfFile("gone.pdf", "x")
	f.Open = func() (io.ReadCloser, error) { return nil, errors.New("file vanished") }

	_, err := testPipeline(1).Merge(context.Background(), []types.SourceFile{pdfFile("a.pdf", "a"), f})

	var perr *ProcessingError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "gone.pdf", perr.FileName)
	assert.Contains(t, err.Error(), "file vanished")
}

func TestMergeParallelKeepsOrder(t *testing.T) {
	files := []types.SourceFile{
		pdfFile("a.pdf", "a1", "a2"),
		pdfFile("b.pdf", "b1"),
		pdfFile("c.pdf", "c1", "c2", "c3"),
		pdfFile("d.pdf", "d1"),
	}

	res, err := testPipeline(2).Merge(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "b1", "c1", "c2", "c3", "d1"}, markers(t, res.Data))
}

func TestMergeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testPipeline(1).Merge(ctx, []types.SourceFile{pdfFile("a.pdf", "a")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMergeUnsupportedSecondFileNamesIt(t *testing.T) {
	for _, concurrency := range []int{1, 2} {
		t.Run(fmt.Sprintf("concurrency %d", concurrency), func(t *testing.T) {
			files := []types.SourceFile{
				pdfFile("a.pdf", "a"),
				intake.FromBytes("v20.pdf", types.MediaTypePDF, pdftest.BuildVersion("2.0", "b")),
			}

			_, err := testPipeline(concurrency).Merge(context.Background(), files)

			var perr *ProcessingError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, "v20.pdf", perr.FileName)
			assert.Equal(t, 1, perr.Index)
		})
	}
}

// withTimeout fails t if fn does not return within a few seconds.
func withTimeout(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("did not return in time")
	}
}

func TestMergeZeroByteFile(t *testing.T) {
	files := []types.SourceFile{
		pdfFile("a.pdf", "a"),
		intake.FromBytes("empty.pdf", types.MediaTypePDF, nil),
	}

	var err error
	withTimeout(t, func() {
		_, err = testPipeline(1).Merge(context.Background(), files)
	})

	var perr *ProcessingError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, "empty.pdf", perr.FileName)
	assert.Equal(t, 1, perr.Index)
	assert.ErrorIs(t, err, engine.ErrEmptyInput)
}
