package relations

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/limaJavier/coursetable/pkg/model"
)

// Format is an encoding of the schedule relation
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

var contentTypes = map[Format]string{
	JSON: "application/json; charset=utf-8",
	CSV:  "text/csv; charset=utf-8",
	XLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ParseFormat accepts json, csv and xlsx in any case
func ParseFormat(name string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := contentTypes[format]; !ok {
		return "", fmt.Errorf("%q is not a valid format, allowed values are json, csv and xlsx", name)
	}
	return format, nil
}

// FormatFromPath picks the format from the file extension, JSON when the extension is unknown
func FormatFromPath(path string) Format {
	if format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return format
	}
	return JSON
}

func (format Format) ContentType() string {
	return contentTypes[format]
}

// Write encodes the schedule in the given format
func Write(w io.Writer, format Format, schedule model.Schedule) error {
	switch format {
	case CSV:
		return WriteCSV(w, schedule)
	case XLSX:
		return WriteWorkbook(w, schedule)
	case JSON:
		return WriteJSON(w, schedule)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// WriteJSON writes the schedule as an indented JSON array
func WriteJSON(w io.Writer, schedule model.Schedule) error {
	if schedule == nil {
		schedule = model.Schedule{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(schedule)
}
