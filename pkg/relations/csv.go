package relations

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/limaJavier/coursetable/pkg/model"
)

// ReadCSV reads the five relations, one CSV document per relation name
func ReadCSV(readers map[string]io.Reader) (model.RawModelInput, error) {
	tables := make(map[string][]map[string]string, len(Names))
	for _, relation := range Names {
		reader, ok := readers[relation]
		if !ok {
			return model.RawModelInput{}, &model.DataError{Relation: relation, Reason: "relation was not provided"}
		}

		csvReader := csv.NewReader(reader)
		csvReader.FieldsPerRecord = -1
		csvReader.TrimLeadingSpace = true
		table, err := csvReader.ReadAll()
		if err != nil {
			return model.RawModelInput{}, &model.DataError{Relation: relation, Reason: fmt.Sprintf("malformed CSV: %v", err)}
		}

		rows, err := decodeRows(relation, table)
		if err != nil {
			return model.RawModelInput{}, err
		}
		tables[relation] = rows
	}
	return assemble(tables)
}

// ReadCSVFiles reads the five relations from the CSV files at the given paths
func ReadCSVFiles(paths map[string]string) (model.RawModelInput, error) {
	readers := make(map[string]io.Reader, len(paths))
	for relation, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return model.RawModelInput{}, fmt.Errorf("cannot open %v relation: %w", relation, err)
		}
		defer file.Close()
		readers[relation] = file
	}
	return ReadCSV(readers)
}

// WriteCSV writes the schedule as a CSV document with a header row
func WriteCSV(w io.Writer, schedule model.Schedule) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(model.Columns); err != nil {
		return fmt.Errorf("cannot write CSV header: %w", err)
	}
	for _, assignment := range schedule {
		if err := writer.Write(assignment.Record()); err != nil {
			return fmt.Errorf("cannot write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
