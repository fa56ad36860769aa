package internal

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Parser parses transaction logs into a list of records, in file order
type Parser interface {
	Parse(path string) ([]Record, error)
}

// ParserFunc is a function that implements Parser
type ParserFunc func(path string) ([]Record, error)

func (f ParserFunc) Parse(path string) ([]Record, error) {
	return f(path)
}

// parsers is the registry of available parsers
var parsers = map[string]Parser{}

// RegisterParser registers a parser with the given name
func RegisterParser(name string, p Parser) {
	parsers[name] = p
}

// GetParser returns the parser for the given source type
func GetParser(source string) (Parser, error) {
	p, ok := parsers[source]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %s (available: %v)", source, AvailableSources())
	}
	return p, nil
}

// AvailableSources returns the registered source types, sorted
func AvailableSources() []string {
	var sources []string
	for name := range parsers {
		sources = append(sources, name)
	}
	slices.Sort(sources)
	return sources
}

// IsKnownParser returns true if the name is a registered parser
func IsKnownParser(name string) bool {
	_, ok := parsers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). If no valid prefix, format is empty.
// Example: "simple-json:data.json" → ("simple-json", "data.json")
// Example: "C:\path\log.csv" → ("", "C:\path\log.csv")
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownParser(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg
}

// DetectSource picks a source type from the file extension, defaulting to CSV
func DetectSource(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return SourceXLSX
	case ".json":
		return SourceSimpleJSON
	default:
		return SourceCSV
	}
}

// ResolveParser returns the parser and path for a file argument.
// An explicit source wins over a format prefix, which wins over the file extension.
func ResolveParser(source, fileArg string) (Parser, string, error) {
	format, path := ParseFileArg(fileArg)
	if source == "" {
		source = format
	}
	if source == "" {
		source = DetectSource(path)
	}
	p, err := GetParser(source)
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}

// isHeader reports whether a row is the optional header line
func isHeader(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	return strings.TrimPrefix(strings.TrimSpace(fields[0]), "\ufeff") == "Id"
}

// ParseRecordFields converts the fields [row_id, subscriber_id, amount, date] into a Record.
// The row id is informational only and is kept as zero when it is not numeric.
func ParseRecordFields(fields []string) (Record, error) {
	if len(fields) < 4 {
		return Record{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}

	var rec Record
	if rowID, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64); err == nil {
		rec.RowID = rowID
	}

	subscriberID, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("parsing subscriber id %q: %w", fields[1], err)
	}
	rec.SubscriberID = subscriberID

	amount, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("parsing amount %q: %w", fields[2], err)
	}
	rec.Amount = amount

	date, err := ParseDate(fields[3])
	if err != nil {
		return Record{}, err
	}
	rec.Date = date

	return rec, nil
}

// ParseDate parses a MM/DD/YYYY date; single-digit month and day are accepted
func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse("1/2/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return date, nil
}
