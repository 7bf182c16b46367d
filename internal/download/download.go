// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download delivers a merged document to the user: it saves the
// bytes under a generated filename and optionally hands the saved file to
// the platform opener.
package download

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdfmerge/pkg/types"
)

// DefaultPrefix is the filename prefix used when none is configured.
const DefaultPrefix = "merged"

// Stdout is the filename that sends output to the Trigger's Stdout.
const Stdout = "-"

// ErrUnsupportedType is returned for MIME types the trigger cannot save.
var ErrUnsupportedType = errors.New("unsupported media type")

// extensions maps accepted MIME types (and their short names) to the file
// extension written.
var extensions = map[string]string{
	types.MediaTypePDF: ".pdf",
	"pdf":               ".pdf",
}

// Filename returns "<prefix>_<YYYYMMDD>.pdf" for t.
func Filename(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%s.pdf", prefix, t.Format("20060102"))
}

// Trigger saves documents into Dir.
type Trigger struct {
	// Dir is the output directory, created on demand.
	Dir string

	// Opener, when set, is handed every saved file.
	Opener Opener

	// Stdout receives the bytes when the filename is "-".
	Stdout io.Writer

	Logger *logrus.Logger
}

// NewTrigger returns a Trigger that saves into dir and writes "-" to
// os.Stdout. A nil logger discards output.
func NewTrigger(dir string, logger *logrus.Logger) *Trigger {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Trigger{Dir: dir, Stdout: os.Stdout, Logger: logger}
}

// Download saves data as filename and returns the final path. mimeType
// defaults to PDF. The bytes are written to a temporary file that is
// renamed into place, so a failed save never leaves a partial file behind.
func (t *Trigger) Download(data []byte, filename, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = types.MediaTypePDF
	}
	ext, ok := extensions[strings.ToLower(mimeType)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	if filename == Stdout {
		if _, err := t.Stdout.Write(data); err != nil {
			return "", fmt.Errorf("writing to stdout: %w", err)
		}
		return Stdout, nil
	}

	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	if filepath.Ext(name) == "" {
		name += ext
	}

	dir := t.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	dest := filepath.Join(dir, name)

	if err := writeAtomic(dest, data); err != nil {
		return "", err
	}
	t.Logger.WithFields(logrus.Fields{"path": dest, "bytes": len(data)}).Info("saved")

	if t.Opener != nil {
		if err := t.Opener.Open(dest); err != nil {
			t.Logger.WithError(err).WithField("path", dest).Warn("could not open saved file")
		}
	}
	return dest, nil
}

// writeAtomic writes data to a temp file next to dest and renames it.
func writeAtomic(dest string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".pdfmerge-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing output: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
