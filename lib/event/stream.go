package event

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxLine = 4 << 20

// ErrMalformedLine is returned by Stream.Next for a line that is not a raw event.
var ErrMalformedLine = errors.New("malformed event line")

// Stream reads raw events stored one JSON object per line. Blank lines and lines starting with # are skipped.
type Stream struct {
	s    *bufio.Scanner
	line int
}

// NewStream returns a Stream reading from r.
func NewStream(r io.Reader) *Stream {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLine)

	return &Stream{s: s}
}

// Next returns the next event, or io.EOF at the end of input. A malformed line returns an error and Next may be
// called again to continue with the following line.
func (s *Stream) Next() (RawEvent, error) {
	for s.s.Scan() {
		s.line++

		b := strings.TrimSpace(s.s.Text())
		if b == "" || strings.HasPrefix(b, "#") {
			continue
		}

		var ev RawEvent
		if err := json.Unmarshal([]byte(b), &ev); err != nil {
			return RawEvent{}, fmt.Errorf("%w: line %d: %v", ErrMalformedLine, s.line, err) //nolint:errorlint // keep sentinel
		}

		return ev, nil
	}

	if err := s.s.Err(); err != nil {
		return RawEvent{}, err
	}

	return RawEvent{}, io.EOF
}

// Line returns the number of the last line read.
func (s *Stream) Line() int {
	return s.line
}
