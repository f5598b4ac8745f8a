// Package playlist parses the playback lists that govern the order and
// repetition of frames within a subanimation.
//
// A playback file is a UTF-8 text file with one entry per line, each entry
// being a 1-based frame number optionally followed by a repeat count:
//
//	1
//	3 2
//	1
//	2 2
//
// Entries may reference frames out of order and may reference the same
// frame more than once; this is how back-and-forth sequences are written.
package playlist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedEntry is returned for a playback line that cannot be
	// parsed: too many fields, a non-integer token, or a non-positive value.
	ErrMalformedEntry = errors.New("malformed playback entry")

	// ErrFrameOutOfRange is returned when a playback entry references a
	// frame number outside the subanimation's frame set.
	ErrFrameOutOfRange = errors.New("playback entry references unknown frame")
)

// Entry pairs a 1-based frame number with the number of ticks it is held.
type Entry struct {
	Frame   int
	Repeats int
}

// Parse reads playback data: one entry per line, whitespace-delimited
// "<frame> [<repeats>]". Blank lines are ignored. When the repeat count is
// omitted the line uses defaultRepeats (clamped to at least 1).
func Parse(data []byte, defaultRepeats int) ([]Entry, error) {
	if defaultRepeats < 1 {
		defaultRepeats = 1
	}

	var out []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 2 {
			return nil, fmt.Errorf("%w: line %d has %d fields, want 1 or 2",
				ErrMalformedEntry, line, len(fields))
		}

		frame, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: frame %q is not an integer",
				ErrMalformedEntry, line, fields[0])
		}
		if frame < 1 {
			return nil, fmt.Errorf("%w: line %d: frame %d is not positive",
				ErrMalformedEntry, line, frame)
		}

		repeats := defaultRepeats
		if len(fields) == 2 {
			repeats, err = strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: repeat count %q is not an integer",
					ErrMalformedEntry, line, fields[1])
			}
			if repeats < 1 {
				return nil, fmt.Errorf("%w: line %d: repeat count %d is not positive",
					ErrMalformedEntry, line, repeats)
			}
		}

		out = append(out, Entry{Frame: frame, Repeats: repeats})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read playback data: %w", err)
	}
	return out, nil
}

// Sequential builds the default playback list for a subanimation with
// frameCount frames: every frame once, in ascending order.
func Sequential(frameCount int) []Entry {
	out := make([]Entry, frameCount)
	for i := range out {
		out[i] = Entry{Frame: i + 1, Repeats: 1}
	}
	return out
}

// Validate checks that every entry references a frame within 1..frameCount.
func Validate(entries []Entry, frameCount int) error {
	for i, e := range entries {
		if e.Frame < 1 || e.Frame > frameCount {
			return fmt.Errorf("%w: entry %d references frame %d, have %d frames",
				ErrFrameOutOfRange, i, e.Frame, frameCount)
		}
	}
	return nil
}
