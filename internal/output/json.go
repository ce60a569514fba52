// Package output renders command results as tables, JSON or CSV.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vijay-prabhu/tripfinder-mcp/internal/recommend"
)

// Formats accepted by Write
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// JSON writes data as indented JSON to stdout
func JSON(data interface{}) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as indented JSON to the given writer
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// JSONCompactTo writes data as single-line JSON to the given writer
func JSONCompactTo(w io.Writer, data interface{}) error {
	return json.NewEncoder(w).Encode(data)
}

// Output writes data to stdout in the given format
func Output(format string, data interface{}) error {
	return Write(os.Stdout, format, data)
}

// Write renders data in the given format. CSV is only available for
// recommendation lists.
func Write(w io.Writer, format string, data interface{}) error {
	switch format {
	case FormatJSON:
		return JSONTo(w, data)
	case FormatTable, "":
		return TableTo(w, data)
	case FormatCSV:
		switch v := data.(type) {
		case []recommend.Recommendation:
			return RecommendationsCSV(w, v)
		case *recommend.Response:
			return RecommendationsCSV(w, v.Recommendations)
		default:
			return fmt.Errorf("csv output is not supported for %T", data)
		}
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
