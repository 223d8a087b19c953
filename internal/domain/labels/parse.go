package labels

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/annolab/labelconv/internal/types"
)

// DefaultDelimiter separates the start, end and label fields of a line.
const DefaultDelimiter = "\t"

// fieldCount is start, end, label. A line is split into at most this many
// fields so label text may itself contain the delimiter.
const fieldCount = 3

// ParseError describes a single unparseable label line.
type ParseError struct {
	File   string
	Line   int
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.File, e.Line, e.Reason, e.Raw)
}

// ParseFile reads one label file into records. Malformed lines are skipped
// and reported as warnings; one bad line must not discard a whole video's
// labels. The returned error covers I/O only.
func ParseFile(path, delim string) ([]types.LabelRecord, []types.ParseWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()
	return Parse(f, path, delim)
}

// Parse reads label lines from r. name is used in warnings only.
func Parse(r io.Reader, name, delim string) ([]types.LabelRecord, []types.ParseWarning, error) {
	if delim == "" {
		delim = DefaultDelimiter
	}

	var (
		recs  []types.LabelRecord
		warns []types.ParseWarning
	)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, perr := parseLine(line, name, lineNo, delim)
		if perr != nil {
			warns = append(warns, types.ParseWarning{
				File:   perr.File,
				Line:   perr.Line,
				Raw:    perr.Raw,
				Reason: perr.Reason,
			})
			continue
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read labels: %w", err)
	}
	return recs, warns, nil
}

func parseLine(line, file string, n int, delim string) (types.LabelRecord, *ParseError) {
	fields := strings.SplitN(line, delim, fieldCount)
	if len(fields) < fieldCount {
		return types.LabelRecord{}, &ParseError{
			File: file, Line: n, Raw: line,
			Reason: fmt.Sprintf("want %d fields, got %d", fieldCount, len(fields)),
		}
	}

	startText := strings.TrimSpace(fields[0])
	endText := strings.TrimSpace(fields[1])

	start, err := strconv.ParseFloat(startText, 64)
	if err != nil {
		return types.LabelRecord{}, &ParseError{
			File: file, Line: n, Raw: line,
			Reason: fmt.Sprintf("start is not a number: %q", startText),
		}
	}
	end, err := strconv.ParseFloat(endText, 64)
	if err != nil {
		return types.LabelRecord{}, &ParseError{
			File: file, Line: n, Raw: line,
			Reason: fmt.Sprintf("end is not a number: %q", endText),
		}
	}

	return types.LabelRecord{
		Start:     start,
		End:       end,
		Label:     fields[2],
		StartText: startText,
		EndText:   endText,
	}, nil
}
