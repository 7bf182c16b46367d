// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdfmerge/internal/pdftest"
	"github.com/pdiddy/pdfmerge/pkg/types"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		want        bool
	}{
		{name: "pdf type and extension", fileName: "report.pdf", contentType: "application/pdf", want: true},
		{name: "uppercase extension", fileName: "REPORT.PDF", contentType: "application/pdf", want: true},
		{name: "mixed case extension", fileName: "scan.Pdf", contentType: "application/pdf", want: true},
		{name: "pdf extension wrong type", fileName: "report.pdf", contentType: "text/plain", want: false},
		{name: "pdf type wrong extension", fileName: "report.txt", contentType: "application/pdf", want: false},
		{name: "no extension", fileName: "report", contentType: "application/pdf", want: false},
		{name: "empty type", fileName: "report.pdf", contentType: "", want: false},
		{name: "pdf inside name only", fileName: "pdf.docx", contentType: "application/pdf", want: false},
		{name: "both wrong", fileName: "image.png", contentType: "image/png", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := types.SourceFile{Name: tt.fileName, ContentType: tt.contentType}
			assert.Equal(t, tt.want, IsValid(f))
		})
	}
}

func TestPartition(t *testing.T) {
	files := []types.SourceFile{
		{Name: "a.pdf", ContentType: types.MediaTypePDF},
		{Name: "b.txt", ContentType: "text/plain"},
		{Name: "c.pdf", ContentType: types.MediaTypePDF},
	}
	valid, rejected := Partition(files)

	require.Len(t, valid, 2)
	assert.Equal(t, "a.pdf", valid[0].Name)
	assert.Equal(t, "c.pdf", valid[1].Name)
	require.Len(t, rejected, 1)
	assert.Equal(t, "b.txt", rejected[0].Name)
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	data := pdftest.Build("p1")
	path := filepath.Join(dir, "input.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	f, err := FromPath(path)
	require.NoError(t, err)

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "input.pdf", f.Name)
	assert.Equal(t, int64(len(data)), f.Size)
	assert.Equal(t, types.MediaTypePDF, f.ContentType)
	assert.True(t, IsValid(f))

	got, err := f.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFromPathSniffsNonPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just some text\n"), 0o644))

	f, err := FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", f.ContentType)
	assert.False(t, IsValid(f))
}

func TestFromPathErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := FromPath(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	_, err = FromPath(dir)
	assert.Error(t, err)
}

func TestFromPathsStopsAtFirstError(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pdf")
	require.NoError(t, os.WriteFile(good, pdftest.Build("g"), 0o644))

	_, err := FromPaths([]string{good, filepath.Join(dir, "nope.pdf")})
	assert.Error(t, err)

	files, err := FromPaths([]string{good, good})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.NotEqual(t, files[0].ID, files[1].ID, "each selection gets its own identifier")
}

func TestFromPathsLenientKeepsBadPaths(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pdf")
	require.NoError(t, os.WriteFile(good, pdftest.Build("g"), 0o644))

	files := FromPathsLenient([]string{good, filepath.Join(dir, "nope.pdf"), dir})
	require.Len(t, files, 3)

	assert.Equal(t, "good.pdf", files[0].Name)
	assert.Equal(t, types.MediaTypePDF, files[0].ContentType)

	assert.Equal(t, "nope.pdf", files[1].Name)
	_, err := files[1].ReadAll()
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Equal(t, filepath.Base(dir), files[2].Name)
	_, err = files[2].ReadAll()
	assert.Error(t, err)
	assert.False(t, IsValid(files[2]))
}

func TestFromBytes(t *testing.T) {
	data := pdftest.Build("m")

	f := FromBytes("mem.pdf", "", data)
	assert.Equal(t, types.MediaTypePDF, f.ContentType)
	assert.Equal(t, int64(len(data)), f.Size)

	declared := FromBytes("mem.pdf", "application/octet-stream", data)
	assert.Equal(t, "application/octet-stream", declared.ContentType)
	assert.False(t, IsValid(declared))

	got, err := f.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, data, got)
}
