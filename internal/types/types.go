package types

// LabelRecord is one parsed label line: a time range plus free-form text.
// StartText/EndText keep the source formatting so generated CSVs are
// byte-stable across runs ("0.0" stays "0.0", not "0").
type LabelRecord struct {
	Start float64
	End   float64
	Label string

	StartText string
	EndText   string
}

// LabelSet is the ordered label rows for one video. Order is source order:
// file by file in match order, line by line within a file.
type LabelSet struct {
	Video   string
	Records []LabelRecord
}

// ParseWarning describes a label line that was skipped instead of parsed.
type ParseWarning struct {
	File   string
	Line   int
	Raw    string
	Reason string
}

// VideoRef identifies one selected input video. Only the path and its stem
// matter; video content is never read.
type VideoRef struct {
	Path string
	Stem string
}

type Status string

const (
	// StatusConverted means the CSV was written.
	StatusConverted Status = "converted"
	// StatusNotFound means no label source matched the video stem.
	StatusNotFound Status = "notfound"
	// StatusFailed means a label file could not be read or the CSV could
	// not be written.
	StatusFailed Status = "failed"
	// StatusCancelled means the batch was stopped before this video ran.
	StatusCancelled Status = "cancelled"
)

// ConversionResult is the per-video outcome.
type ConversionResult struct {
	Video    VideoRef
	Status   Status
	Output   string
	Rows     int
	Warnings []ParseWarning
	Err      string
}

// Progress is emitted after each video completes. Done is the completion
// count so far; with a sequential driver it also equals the video's position
// in the selection order.
type Progress struct {
	Done   int
	Total  int
	Result ConversionResult
}

// BatchResult summarizes one conversion run. Results holds one entry per
// selected video, in selection order, regardless of worker count.
type BatchResult struct {
	Results   []ConversionResult
	Cancelled bool
}

func (b BatchResult) Count(s Status) int {
	n := 0
	for _, r := range b.Results {
		if r.Status == s {
			n++
		}
	}
	return n
}
