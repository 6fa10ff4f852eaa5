package relations

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/limaJavier/coursetable/pkg/model"
)

// ScheduleSheet is the name of the sheet holding an exported schedule
const ScheduleSheet = "schedule"

// ReadWorkbook reads the five relations from the sheets of an .xlsx workbook, one sheet per relation name
func ReadWorkbook(r io.Reader) (model.RawModelInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.RawModelInput{}, &model.DataError{Relation: "workbook", Reason: fmt.Sprintf("cannot open workbook: %v", err)}
	}
	defer f.Close()

	sheets := lo.SliceToMap(f.GetSheetList(), func(sheet string) (string, string) {
		return strings.ToLower(strings.TrimSpace(sheet)), sheet
	})

	tables := make(map[string][]map[string]string, len(Names))
	for _, relation := range Names {
		sheet, ok := sheets[relation]
		if !ok {
			return model.RawModelInput{}, &model.DataError{Relation: relation, Reason: fmt.Sprintf("workbook has no %q sheet", relation)}
		}

		table, err := f.GetRows(sheet)
		if err != nil {
			return model.RawModelInput{}, &model.DataError{Relation: relation, Reason: fmt.Sprintf("cannot read sheet: %v", err)}
		}

		rows, err := decodeRows(relation, table)
		if err != nil {
			return model.RawModelInput{}, err
		}
		tables[relation] = rows
	}
	return assemble(tables)
}

// WriteWorkbook writes the schedule into a single sheet of a new .xlsx workbook
func WriteWorkbook(w io.Writer, schedule model.Schedule) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ScheduleSheet)
	if err != nil {
		return fmt.Errorf("cannot create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("cannot delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("cannot create header style: %w", err)
	}

	for column, name := range model.Columns {
		if err := f.SetCellValue(ScheduleSheet, cell(column, 1), name); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(ScheduleSheet, cell(0, 1), cell(len(model.Columns)-1, 1), headerStyle); err != nil {
		return err
	}

	for i, assignment := range schedule {
		record := assignment.Record()
		for column, value := range record[:len(record)-1] {
			if err := f.SetCellValue(ScheduleSheet, cell(column, i+2), value); err != nil {
				return err
			}
		}
		// Enrollment is kept numeric
		if err := f.SetCellValue(ScheduleSheet, cell(len(record)-1, i+2), assignment.Enrollment); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

func cell(column, row int) string {
	name, _ := excelize.CoordinatesToCellName(column+1, row)
	return name
}
