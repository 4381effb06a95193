// Package wire implements the Helmsman's line-oriented bus protocol: one
// key:value record per line, terminated by '\n'. Grounded on the original
// project's hand-rolled line buffer (io/linebuffer.*) and the sscanf/printf
// record formats in helmsman_main.cc, per SPEC_FULL.md's "EXTERNAL
// INTERFACES" and DESIGN NOTES sections.
package wire

import (
	"bytes"
	"strings"
)

// maxLineLen bounds a single in-flight line; exceeding it discards the
// partial line until the next newline, matching the original's
// overflow-discard semantics.
const maxLineLen = 4096

// LineStream accumulates bytes pushed from a reader and yields complete
// lines. It never blocks and performs no I/O itself.
type LineStream struct {
	buf     []byte
	discard bool
}

// NewLineStream returns an empty LineStream.
func NewLineStream() *LineStream {
	return &LineStream{}
}

// Push appends newly read bytes to the stream's internal buffer.
func (s *LineStream) Push(b []byte) {
	s.buf = append(s.buf, b...)
}

// Discarding reports whether the stream is currently dropping an
// overlength partial line.
func (s *LineStream) Discarding() bool { return s.discard }

// PopLine removes and returns the next complete line (without its
// trailing '\n'), and true, if one is available. It returns "", false if no
// complete line is currently buffered.
func (s *LineStream) PopLine() (string, bool) {
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			if len(s.buf) > maxLineLen {
				// Overflow: discard everything buffered so far and keep
				// dropping bytes until the next newline is found.
				s.buf = s.buf[:0]
				s.discard = true
			}
			return "", false
		}
		line := string(s.buf[:i])
		s.buf = s.buf[i+1:]
		if s.discard {
			s.discard = false
			continue
		}
		return strings.TrimRight(line, "\r"), true
	}
}

