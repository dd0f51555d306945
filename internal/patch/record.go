package patch

import (
	"strings"
	"time"

	patcheserrors "patches.dev/patches/internal/errors"
)

// DiffMarker is the prefix every diff payload starts with
const DiffMarker = "diff --git "

// Extension is the file extension that selects patch files
const Extension = ".patch"

const (
	headerFrom    = "From: "
	headerDate    = "Date: "
	headerSubject = "Subject: "
)

// DateLayout is the RFC-1123 layout with a numeric UTC offset used for the Date header
const DateLayout = time.RFC1123Z

// Record is a diff plus the commit metadata needed to replay it
type Record struct {
	DiffText    string
	Subject     string
	Body        string
	AuthorName  string
	AuthorEmail string
	AuthorDate  time.Time
}

// Message returns the commit message used when the record is applied
func (r *Record) Message() string {
	return r.Subject + "\n\n" + r.Body
}

// Validate reports whether the record can be written
func (r *Record) Validate() error {
	switch {
	case strings.TrimSpace(r.DiffText) == "":
		return patcheserrors.NewValidationError("diff", "no diff text")
	case !strings.HasPrefix(r.DiffText, DiffMarker):
		return patcheserrors.NewValidationError("diff", "diff text must start with \""+strings.TrimSpace(DiffMarker)+"\"")
	case strings.TrimSpace(r.AuthorName) == "":
		return patcheserrors.NewValidationError("author name", "blank")
	case strings.ContainsAny(r.AuthorName, "<>\n"):
		return patcheserrors.NewValidationError("author name", "must not contain angle brackets or line breaks")
	case strings.TrimSpace(r.AuthorEmail) == "":
		return patcheserrors.NewValidationError("author email", "blank")
	case strings.ContainsAny(r.AuthorEmail, "<>\n"):
		return patcheserrors.NewValidationError("author email", "must not contain angle brackets or line breaks")
	case strings.TrimSpace(r.Subject) == "":
		return patcheserrors.NewValidationError("subject", "blank")
	case strings.Contains(strings.TrimSpace(r.Subject), "\n"):
		return patcheserrors.NewValidationError("subject", "must be a single line")
	case r.AuthorDate.IsZero():
		return patcheserrors.NewValidationError("author date", "missing")
	}
	return nil
}

// IsPatchFile reports whether a file name carries the patch extension, ignoring case
func IsPatchFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Extension)
}

// SplitMessage splits a full commit message into its subject (first line)
// and body (the trimmed remainder). A message without a line break has no
// subject/body boundary and is rejected.
func SplitMessage(message string) (subject string, body string, err error) {
	if strings.TrimSpace(message) == "" {
		return "", "", patcheserrors.NewFormatError(0, "commit message is empty", nil)
	}
	idx := strings.IndexByte(message, '\n')
	if idx < 0 {
		return "", "", patcheserrors.NewFormatError(0, "commit message has no line break", nil)
	}
	return strings.TrimSpace(message[:idx]), strings.TrimSpace(message[idx+1:]), nil
}
