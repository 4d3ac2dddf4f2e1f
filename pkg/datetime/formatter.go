package datetime

import "time"

// Formatter converts backend timestamps to the viewer's local display
// format. Conversion happens at render time only; stored values stay
// untouched.
type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Timestamp layouts seen from the backend. The history table stores
// "2006-01-02 15:04:05" in Vietnam time; JSON serialization sometimes turns
// it into RFC 3339 variants.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000000",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse tries each known layout in order. Layouts without an explicit zone
// are interpreted as UTC.
func (f *Formatter) Parse(value string) (time.Time, bool) {
	for _, format := range timestampFormats {
		if parsed, err := time.Parse(format, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// DisplayLocal renders a backend timestamp in the viewer's local time, in
// day-first order as the console's operators expect. Unparseable values are
// shown verbatim rather than hidden.
func (f *Formatter) DisplayLocal(value string) string {
	parsed, ok := f.Parse(value)
	if !ok {
		return value
	}
	return parsed.Local().Format("02/01/2006 15:04:05")
}
