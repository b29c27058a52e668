package ports

// RowIterator streams the rows of one sheet, header row first. Cell values
// are the evaluated text of each cell; a row may be shorter than the header.
type RowIterator interface {
	Next() bool
	Columns() ([]string, error)
	Err() error
	Close() error
}

// WorkbookOpener opens registry workbooks by path
type WorkbookOpener interface {
	// Supported reports whether a reader exists for the file's format
	Supported(path string) bool

	// Open returns a row stream over the workbook's active sheet
	Open(path string) (RowIterator, error)
}
