package patch

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	patcheserrors "patches.dev/patches/internal/errors"
)

// section is the part of a patch file the decoder is currently in
type section int

const (
	sectionHeaders section = iota
	sectionBody
	sectionDiff
)

// dateLayouts are tried in order when parsing the Date header. The first is
// what Write produces; the rest accept other RFC-1123 writers (single digit
// day, zone names such as GMT, omitted weekday).
var dateLayouts = []string{
	DateLayout,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 MST",
}

// decoder is the three-state line scanner behind Read and Decode
type decoder struct {
	state  section
	line   int
	record Record

	hasFrom    bool
	hasDate    bool
	hasSubject bool

	body strings.Builder
	diff strings.Builder
}

// feed consumes one line, without its terminating newline
func (d *decoder) feed(line string) error {
	d.line++

	switch d.state {
	case sectionHeaders:
		header := strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(header) == "" {
			d.state = sectionBody
			return nil
		}
		if strings.HasPrefix(line, DiffMarker) {
			d.state = sectionDiff
			d.appendDiff(line)
			return nil
		}
		return d.header(header)

	case sectionBody:
		if strings.HasPrefix(line, DiffMarker) {
			d.state = sectionDiff
			d.appendDiff(line)
			return nil
		}
		d.body.WriteString(strings.TrimSuffix(line, "\r"))
		d.body.WriteByte('\n')

	case sectionDiff:
		d.appendDiff(line)
	}
	return nil
}

func (d *decoder) appendDiff(line string) {
	d.diff.WriteString(line)
	d.diff.WriteByte('\n')
}

func (d *decoder) header(line string) error {
	switch {
	case strings.HasPrefix(line, headerFrom):
		name, email, err := parseFrom(strings.TrimPrefix(line, headerFrom))
		if err != nil {
			return patcheserrors.NewFormatError(d.line, "unparseable From header", err)
		}
		d.record.AuthorName = name
		d.record.AuthorEmail = email
		d.hasFrom = true

	case strings.HasPrefix(line, headerDate):
		when, err := parseDate(strings.TrimSpace(strings.TrimPrefix(line, headerDate)))
		if err != nil {
			return patcheserrors.NewFormatError(d.line, "unparseable Date header", err)
		}
		d.record.AuthorDate = when
		d.hasDate = true

	case strings.HasPrefix(line, headerSubject):
		d.record.Subject = strings.TrimSpace(strings.TrimPrefix(line, headerSubject))
		d.hasSubject = true
	}
	return nil
}

// finish checks the scanned record is well-formed and returns it
func (d *decoder) finish() (*Record, error) {
	switch {
	case !d.hasFrom || d.record.AuthorName == "" || d.record.AuthorEmail == "":
		return nil, patcheserrors.NewFormatError(0, "missing or empty From header", nil)
	case !d.hasDate:
		return nil, patcheserrors.NewFormatError(0, "missing Date header", nil)
	case !d.hasSubject || d.record.Subject == "":
		return nil, patcheserrors.NewFormatError(0, "missing or empty Subject header", nil)
	case d.diff.Len() == 0:
		return nil, patcheserrors.NewFormatError(0, "no diff found (expected a line starting with \""+strings.TrimSpace(DiffMarker)+"\")", nil)
	}

	record := d.record
	record.Body = strings.TrimSpace(d.body.String())
	record.DiffText = d.diff.String()
	return &record, nil
}

// parseFrom splits "Name <email>" into its parts
func parseFrom(value string) (string, string, error) {
	parts := strings.Split(value, "<")
	if len(parts) != 2 {
		return "", "", errors.New("expected \"Name <email>\"")
	}
	name := strings.TrimSpace(parts[0])
	email := strings.TrimSpace(strings.ReplaceAll(parts[1], ">", ""))
	if name == "" || email == "" {
		return "", "", errors.New("expected \"Name <email>\"")
	}
	return name, email, nil
}

func parseDate(value string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		when, err := time.Parse(layout, value)
		if err == nil {
			return when, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// DecodeLines decodes a record from lines that have already been split,
// without their newline terminators
func DecodeLines(lines []string) (*Record, error) {
	d := &decoder{}
	for _, line := range lines {
		if err := d.feed(line); err != nil {
			return nil, err
		}
	}
	return d.finish()
}

// Decode reads a record in patch file format from r
func Decode(r io.Reader) (*Record, error) {
	d := &decoder{}
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			if ferr := d.feed(strings.TrimSuffix(line, "\n")); ferr != nil {
				return nil, ferr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, patcheserrors.NewIOError("read", "patch", err)
		}
	}
	return d.finish()
}

// Read decodes the patch file at path
func Read(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, patcheserrors.NewIOError("open", path, err)
	}
	defer f.Close()

	record, err := Decode(f)
	if err != nil {
		var formatErr *patcheserrors.FormatError
		if errors.As(err, &formatErr) {
			formatErr.File = path
		}
		var ioErr *patcheserrors.IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return nil, err
	}
	return record, nil
}
