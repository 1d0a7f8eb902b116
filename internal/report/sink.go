package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrDirectoryNotFound is returned whenever the directory of the output path does not exist
	ErrDirectoryNotFound = errors.New("directory does not exist")

	// ErrEmptyPath is returned whenever no output path was given
	ErrEmptyPath = errors.New("no output path given")
)

// Sink receives report rows
type Sink interface {
	// WriteRow writes a single row
	WriteRow(row Row) error

	// Close finishes the report and releases the underlying file
	Close() error
}

// ValidateOutputPath checks that the directory the report is going to be written to exists
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}
	return nil
}

// Open validates the output path and opens the sink matching its extension: '.xlsx' produces a spreadsheet,
// everything else a CSV file
func Open(path string) (Sink, error) {
	if err := ValidateOutputPath(path); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return NewXLSXSink(path)
	}
	return NewCSVSink(path)
}

// CSVSink writes rows to a CSV file, starting with the header row
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
}

var _ Sink = (*CSVSink)(nil)

// NewCSVSink creates (or truncates) the CSV file at path and writes the header row
func NewCSVSink(path string) (*CSVSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	sink := &CSVSink{
		file:   file,
		writer: csv.NewWriter(file),
	}
	if err := sink.writer.Write(Columns); err != nil {
		file.Close()
		return nil, err
	}
	return sink, nil
}

// WriteRow writes a single row
func (sink *CSVSink) WriteRow(row Row) error {
	return sink.writer.Write(row.Values())
}

// Close flushes the buffered rows and closes the file
func (sink *CSVSink) Close() error {
	sink.writer.Flush()
	if err := sink.writer.Error(); err != nil {
		sink.file.Close()
		return err
	}
	return sink.file.Close()
}

// XLSXSink collects rows in a spreadsheet that is saved to disk on Close
type XLSXSink struct {
	path  string
	file  *excelize.File
	sheet string
	next  int
}

var _ Sink = (*XLSXSink)(nil)

// SheetName is the name of the worksheet holding the report
const SheetName = "User Sessions"

// NewXLSXSink creates a new spreadsheet containing the header row
func NewXLSXSink(path string) (*XLSXSink, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName(file.GetSheetName(0), SheetName); err != nil {
		file.Close()
		return nil, err
	}
	sink := &XLSXSink{
		path:  path,
		file:  file,
		sheet: SheetName,
		next:  1,
	}
	if err := sink.writeValues(Columns); err != nil {
		file.Close()
		return nil, err
	}
	return sink, nil
}

func (sink *XLSXSink) writeValues(values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, sink.next)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, value := range values {
		cells[i] = value
	}
	if err := sink.file.SetSheetRow(sink.sheet, cell, &cells); err != nil {
		return err
	}
	sink.next++
	return nil
}

// WriteRow writes a single row
func (sink *XLSXSink) WriteRow(row Row) error {
	return sink.writeValues(row.Values())
}

// Close saves the spreadsheet to its path
func (sink *XLSXSink) Close() error {
	if err := sink.file.SaveAs(sink.path); err != nil {
		sink.file.Close()
		return err
	}
	return sink.file.Close()
}
