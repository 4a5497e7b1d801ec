package api

import (
	"bufio"
	"io"
	"strings"
)

// sseFrame is one raw Server-Sent Event: the event name from the
// "event:" field and the payload assembled from "data:" lines.
type sseFrame struct {
	Event string
	Data  string
}

// sseScanner reads Server-Sent Events from an io.Reader. Frames are
// delimited by blank lines; comment lines (the runtime's keepalives)
// and unknown fields are skipped per the SSE specification.
type sseScanner struct {
	reader  *bufio.Reader
	current sseFrame
	err     error
}

func newSSEScanner(r io.Reader) *sseScanner {
	return &sseScanner{reader: bufio.NewReaderSize(r, 64*1024)}
}

// Next advances to the next frame. Returns false on EOF or error; call
// Err to distinguish.
func (s *sseScanner) Next() bool {
	s.current = sseFrame{}

	var dataLines []string
	var eventName string
	hasData := false

	for {
		line, err := s.reader.ReadString('\n')

		// Partial last line before EOF still counts.
		if err != nil && line == "" {
			if err == io.EOF {
				if hasData {
					s.current = sseFrame{Event: eventName, Data: strings.Join(dataLines, "\n")}
					s.err = io.EOF
					return true
				}
				return false
			}
			s.err = err
			return false
		}

		line = strings.TrimRight(line, "\r\n")

		// Blank line terminates a frame.
		if line == "" {
			if hasData {
				s.current = sseFrame{Event: eventName, Data: strings.Join(dataLines, "\n")}
				return true
			}
			eventName = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			// Keepalive comment.
			continue
		}

		field, value, hasColon := strings.Cut(line, ":")
		if !hasColon {
			field = line
			value = ""
		} else {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			dataLines = append(dataLines, value)
			hasData = true
		case "event":
			eventName = value
		default:
			// "id", "retry", and unknown fields are ignored.
		}
	}
}

func (s *sseScanner) Frame() sseFrame {
	return s.current
}

func (s *sseScanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
