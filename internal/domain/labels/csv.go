package labels

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/annolab/labelconv/internal/types"
)

// Header is the fixed CSV header row.
var Header = []string{"start", "end", "label"}

// WriteCSV serializes a label set as UTF-8 CSV: header first, then one row
// per record in set order. encoding/csv handles RFC 4180 quoting, which is
// what makes free-form label text containing commas or quotes safe.
func WriteCSV(w io.Writer, set types.LabelSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range set.Records {
		row := []string{timeField(rec.StartText, rec.Start), timeField(rec.EndText, rec.End), rec.Label}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the set to path, overwriting any existing file.
func WriteFile(path string, set types.LabelSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := WriteCSV(f, set); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	return nil
}

func timeField(raw string, v float64) string {
	if raw != "" {
		return raw
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
