package patch

import (
	"bytes"
	"io"
	"os"
	"strings"

	patcheserrors "patches.dev/patches/internal/errors"
)

// Encode writes the record in patch file format to w
func Encode(w io.Writer, r *Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if _, err := w.Write(render(r)); err != nil {
		return patcheserrors.NewIOError("write", "patch", err)
	}
	return nil
}

// Write encodes the record to path, replacing any existing file.
// Nothing is written when the record fails validation.
func Write(r *Record, path string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := os.WriteFile(path, render(r), 0644); err != nil {
		return patcheserrors.NewIOError("write", path, err)
	}
	return nil
}

func render(r *Record) []byte {
	var b bytes.Buffer
	b.WriteString(headerFrom + strings.TrimSpace(r.AuthorName) + " <" + strings.TrimSpace(r.AuthorEmail) + ">\n")
	b.WriteString(headerDate + r.AuthorDate.Format(DateLayout) + "\n")
	b.WriteString(headerSubject + strings.TrimSpace(r.Subject) + "\n")
	b.WriteString("\n")

	if body := strings.TrimSpace(r.Body); body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}

	b.WriteString(r.DiffText)
	if !strings.HasSuffix(r.DiffText, "\n") {
		b.WriteString("\n")
	}
	return b.Bytes()
}
