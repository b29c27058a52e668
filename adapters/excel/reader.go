package excel

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"registrymail/internal/errors"
	"registrymail/ports"

	"github.com/xuri/excelize/v2"
)

const (
	fileTypeXLSX = "xlsx"
	fileTypeCSV  = "csv"
)

// formats maps a lower-cased extension to the reader that handles it
var formats = map[string]string{
	".xlsx": fileTypeXLSX,
	".xlsm": fileTypeXLSX,
	".xltx": fileTypeXLSX,
	".xltm": fileTypeXLSX,
	".csv":  fileTypeCSV,
}

// Supported reports whether a reader exists for the file's extension
func Supported(filePath string) bool {
	_, ok := formats[strings.ToLower(filepath.Ext(filePath))]
	return ok
}

// DataReader handles reading Excel and CSV registry files
type DataReader struct {
	filePath string
	fileType string // "xlsx", "csv" or "" when unsupported
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	return &DataReader{
		filePath: filePath,
		fileType: formats[strings.ToLower(filepath.Ext(filePath))],
	}
}

// Open returns a row stream over the workbook's active sheet. The caller
// must Close it.
func (r *DataReader) Open() (ports.RowIterator, error) {
	switch r.fileType {
	case fileTypeXLSX:
		return r.openExcel()
	case fileTypeCSV:
		return r.openCSV()
	default:
		return nil, errors.UnsupportedFormat("no reader available for " + extensionLabel(r.filePath) + " files")
	}
}

func (r *DataReader) openExcel() (ports.RowIterator, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		f.Close()
		return nil, errors.InternalError("workbook has no active sheet")
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheet)
	}

	return &excelRows{file: f, rows: rows}, nil
}

func (r *DataReader) openCSV() (ports.RowIterator, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	return &csvRows{file: file, reader: reader}, nil
}

func extensionLabel(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		return "extension-less"
	}
	return ext
}

// excelRows streams the rows of one sheet and owns the workbook handle
type excelRows struct {
	file *excelize.File
	rows *excelize.Rows
}

func (e *excelRows) Next() bool {
	return e.rows.Next()
}

// Columns returns the cached cell values of the current row; formula
// source is never returned.
func (e *excelRows) Columns() ([]string, error) {
	return e.rows.Columns()
}

func (e *excelRows) Err() error {
	return e.rows.Error()
}

func (e *excelRows) Close() error {
	rowsErr := e.rows.Close()
	fileErr := e.file.Close()
	if rowsErr != nil {
		return rowsErr
	}
	return fileErr
}

// csvRows streams CSV records, tolerating ragged rows
type csvRows struct {
	file    *os.File
	reader  *csv.Reader
	current []string
	err     error
	line    int
}

func (c *csvRows) Next() bool {
	if c.err != nil {
		return false
	}
	record, err := c.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		c.err = errors.Wrap(err, "failed to read CSV file")
		return false
	}
	if c.line == 0 && len(record) > 0 {
		record[0] = strings.TrimPrefix(record[0], "\ufeff")
	}
	c.line++
	c.current = record
	return true
}

func (c *csvRows) Columns() ([]string, error) {
	return c.current, nil
}

func (c *csvRows) Err() error {
	return c.err
}

func (c *csvRows) Close() error {
	return c.file.Close()
}

// Opener implements ports.WorkbookOpener on top of DataReader
type Opener struct{}

// NewOpener creates a workbook opener
func NewOpener() *Opener {
	return &Opener{}
}

// Supported reports whether the file's format can be read
func (o *Opener) Supported(filePath string) bool {
	return Supported(filePath)
}

// Open opens the workbook at filePath
func (o *Opener) Open(filePath string) (ports.RowIterator, error) {
	return NewDataReader(filePath).Open()
}
