// Package multipart decodes multipart/form-data request bodies into text
// fields and file parts. It scans raw bytes as they arrive and never
// round-trips the payload through a text encoding, so file contents are
// preserved exactly. A cumulative size cap is enforced while reading: the
// decode aborts the moment the running total passes the limit.
package multipart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
)

var (
	// ErrMalformed reports a request that is not multipart, lacks a
	// boundary parameter, or has a structurally invalid body.
	ErrMalformed = errors.New("malformed multipart request")

	// ErrTooLarge reports that the cumulative body size passed the limit.
	ErrTooLarge = errors.New("multipart payload too large")
)

// File is one decoded file part.
type File struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// Form is the result of decoding a multipart body.
type Form struct {
	Fields map[string]string
	Files  []File
}

// Boundary extracts the boundary token from a Content-Type header value.
func Boundary(contentType string) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: bad content type: %v", ErrMalformed, err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return "", fmt.Errorf("%w: content type %q is not multipart", ErrMalformed, mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return "", fmt.Errorf("%w: no boundary parameter", ErrMalformed)
	}
	return boundary, nil
}

const readChunk = 32 << 10

type state int

const (
	stateSeekBoundary state = iota
	stateReadHeaders
	stateReadBody
	stateDone
)

type decoder struct {
	src      io.Reader
	buf      []byte
	total    int64
	maxBytes int64
	eof      bool

	dashBoundary []byte // "--" + boundary
	delimiter    []byte // "\r\n--" + boundary
}

// Parse decodes body with the given boundary token, enforcing maxBytes as a
// cumulative limit on bytes read.
func Parse(body io.Reader, boundary string, maxBytes int64) (*Form, error) {
	d := &decoder{
		src:          body,
		maxBytes:     maxBytes,
		dashBoundary: []byte("--" + boundary),
		delimiter:    []byte("\r\n--" + boundary),
	}
	return d.run()
}

func (d *decoder) run() (*Form, error) {
	form := &Form{Fields: map[string]string{}}

	st := stateSeekBoundary
	var partName, partFilename, partType string

	for st != stateDone {
		switch st {
		case stateSeekBoundary:
			if err := d.consumeOpeningBoundary(); err != nil {
				return nil, err
			}
			closed, err := d.consumeBoundaryTail()
			if err != nil {
				return nil, err
			}
			if closed {
				st = stateDone
				continue
			}
			st = stateReadHeaders

		case stateReadHeaders:
			name, filename, contentType, err := d.readHeaders()
			if err != nil {
				return nil, err
			}
			partName, partFilename, partType = name, filename, contentType
			st = stateReadBody

		case stateReadBody:
			data, closed, err := d.readBody()
			if err != nil {
				return nil, err
			}
			switch {
			case partFilename != "":
				form.Files = append(form.Files, File{
					FieldName:   partName,
					Filename:    partFilename,
					ContentType: partType,
					Data:        data,
				})
			case partName != "":
				form.Fields[partName] = string(data)
			default:
				// Nameless, fileless part: ignored.
			}
			if closed {
				st = stateDone
				continue
			}
			st = stateReadHeaders
		}
	}

	return form, nil
}

// consumeOpeningBoundary discards the preamble up to and including the first
// boundary marker.
func (d *decoder) consumeOpeningBoundary() error {
	for {
		if idx := bytes.Index(d.buf, d.dashBoundary); idx >= 0 {
			d.buf = d.buf[idx+len(d.dashBoundary):]
			return nil
		}
		// Keep only a tail that could still hold a split marker.
		if keep := len(d.dashBoundary) - 1; len(d.buf) > keep {
			d.buf = d.buf[len(d.buf)-keep:]
		}
		if d.eof {
			return fmt.Errorf("%w: boundary never found", ErrMalformed)
		}
		if err := d.fill(); err != nil {
			return err
		}
	}
}

// consumeBoundaryTail reads the two bytes after a boundary marker: "--"
// closes the stream, CRLF starts a part.
func (d *decoder) consumeBoundaryTail() (closed bool, err error) {
	for len(d.buf) < 2 && !d.eof {
		if err := d.fill(); err != nil {
			return false, err
		}
	}
	if len(d.buf) >= 2 && d.buf[0] == '-' && d.buf[1] == '-' {
		d.buf = d.buf[2:]
		return true, nil
	}
	if len(d.buf) >= 2 && d.buf[0] == '\r' && d.buf[1] == '\n' {
		d.buf = d.buf[2:]
		return false, nil
	}
	return false, fmt.Errorf("%w: unexpected bytes after boundary", ErrMalformed)
}

var headerSep = []byte("\r\n\r\n")

func (d *decoder) readHeaders() (name, filename, contentType string, err error) {
	for {
		if idx := bytes.Index(d.buf, headerSep); idx >= 0 {
			block := d.buf[:idx]
			d.buf = d.buf[idx+len(headerSep):]
			return parseHeaderBlock(block)
		}
		if d.eof {
			return "", "", "", fmt.Errorf("%w: unterminated part headers", ErrMalformed)
		}
		if err := d.fill(); err != nil {
			return "", "", "", err
		}
	}
}

func parseHeaderBlock(block []byte) (name, filename, contentType string, err error) {
	for _, line := range bytes.Split(block, []byte("\r\n")) {
		idx := bytes.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(string(line[:idx])))
		val := strings.TrimSpace(string(line[idx+1:]))
		switch key {
		case "content-disposition":
			_, params, parseErr := mime.ParseMediaType(val)
			if parseErr != nil {
				continue
			}
			name = params["name"]
			filename = params["filename"]
		case "content-type":
			contentType = val
		}
	}
	if filename != "" && contentType == "" {
		contentType = "application/octet-stream"
	}
	return name, filename, contentType, nil
}

// readBody collects part bytes up to the next delimiter. The CRLF that
// precedes the delimiter belongs to the framing, not the payload, so the
// returned data is byte-exact.
func (d *decoder) readBody() (data []byte, closed bool, err error) {
	var consumed int
	for {
		if idx := bytes.Index(d.buf[consumed:], d.delimiter); idx >= 0 {
			end := consumed + idx
			data = append([]byte(nil), d.buf[:end]...)
			d.buf = d.buf[end+len(d.delimiter):]
			closed, err = d.consumeBoundaryTail()
			if err != nil {
				return nil, false, err
			}
			return data, closed, nil
		}
		// Everything except a possible split delimiter tail is settled body.
		if settled := len(d.buf) - (len(d.delimiter) - 1); settled > consumed {
			consumed = settled
		}
		if d.eof {
			return nil, false, fmt.Errorf("%w: unterminated part body", ErrMalformed)
		}
		if err := d.fill(); err != nil {
			return nil, false, err
		}
	}
}

// fill reads one chunk from the source, enforcing the cumulative cap.
func (d *decoder) fill() error {
	chunk := make([]byte, readChunk)
	n, err := d.src.Read(chunk)
	if n > 0 {
		d.total += int64(n)
		if d.maxBytes > 0 && d.total > d.maxBytes {
			return ErrTooLarge
		}
		d.buf = append(d.buf, chunk[:n]...)
	}
	if err == io.EOF {
		d.eof = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	return nil
}
