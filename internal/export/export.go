// Package export writes pipeline results to CSV and XLSX files using the
// Portuguese column contract the downstream spreadsheets expect. Output
// filenames carry a millisecond timestamp suffix so repeated exports never
// overwrite each other.
package export

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"warehouse/fiscal-recon/internal/dateutils"
	"warehouse/fiscal-recon/internal/logging"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Delimiter is the global CSV output delimiter, configurable through the
// CSV_DELIMITER environment variable or SetDelimiter.
var Delimiter rune = ','

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		SetDelimiter([]rune(val)[0])
	}
}

// SetDelimiter allows setting the delimiter for CSV output
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// Filename builds "<prefix>_<DDMMYYYYHHMMSS><mmm>.<ext>", e.g.
// "nfspdf_10032025143005123.xlsx".
func Filename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, dateutils.TimestampSuffix(now), ext)
}
