package registry

import (
	stderrors "errors"
	"testing"

	"registrymail/internal/errors"
	"registrymail/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceRows is an in-memory row stream
type sliceRows struct {
	rows    [][]string
	pos     int
	reads   int
	failAt  int
	iterErr error
}

func newSliceRows(rows ...[]string) *sliceRows {
	return &sliceRows{rows: rows, pos: -1, failAt: -1}
}

func (s *sliceRows) Next() bool {
	if s.pos+1 >= len(s.rows) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceRows) Columns() ([]string, error) {
	s.reads++
	if s.pos == s.failAt {
		return nil, stderrors.New("corrupt row")
	}
	return s.rows[s.pos], nil
}

func (s *sliceRows) Err() error   { return s.iterErr }
func (s *sliceRows) Close() error { return nil }

func header() []string {
	return []string{"Entity Name", "Contact Email"}
}

func TestExtractScenarioA(t *testing.T) {
	rows := newSliceRows(
		header(),
		[]string{"Acme Corp", " a@x.com "},
		[]string{"acme corp", "b@x.com"},
		[]string{"", "c@x.com"},
		[]string{"Beta LLC", ""},
	)

	records, stats, err := NewExtractor(DefaultColumns()).ExtractWithStats(rows)
	require.NoError(t, err)

	assert.Equal(t, []models.RegistryRecord{{Name: "Acme Corp", Email: "a@x.com"}}, records)
	assert.Equal(t, Stats{RowsScanned: 4, RowsIncomplete: 2, RowsDuplicate: 1, Records: 1}, stats)
}

func TestExtractHeaderOnlyReturnsEmptyList(t *testing.T) {
	records, err := NewExtractor(DefaultColumns()).Extract(newSliceRows(header()))
	require.NoError(t, err)

	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestExtractMissingColumnFailsBeforeRows(t *testing.T) {
	rows := newSliceRows(
		[]string{"Entity Name", "Phone"},
		[]string{"Acme Corp", "555-0100"},
		[]string{"Beta LLC", "555-0101"},
	)

	records, err := NewExtractor(DefaultColumns()).Extract(rows)
	require.Error(t, err)

	assert.Nil(t, records)
	assert.Equal(t, errors.CodeSchemaError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "'Entity Name' and 'Contact Email'")
	assert.Equal(t, 1, rows.reads, "only the header row should be read")
}

func TestExtractEmptySheetIsSchemaError(t *testing.T) {
	_, err := NewExtractor(DefaultColumns()).Extract(newSliceRows())
	require.Error(t, err)
	assert.Equal(t, errors.CodeSchemaError, errors.GetCode(err))
}

func TestExtractHeaderMatchIsExact(t *testing.T) {
	tests := []struct {
		name   string
		header []string
	}{
		{"lower case", []string{"entity name", "contact email"}},
		{"padded", []string{" Entity Name", "Contact Email "}},
		{"one missing", []string{"Entity Name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor(DefaultColumns()).Extract(newSliceRows(tt.header, []string{"a", "b"}))
			assert.Equal(t, errors.CodeSchemaError, errors.GetCode(err))
		})
	}
}

func TestExtractFirstOccurrenceWins(t *testing.T) {
	rows := newSliceRows(
		header(),
		[]string{"Gamma Ltd", "first@gamma.test"},
		[]string{"Delta Inc", "delta@delta.test"},
		[]string{"GAMMA LTD", "second@gamma.test"},
		[]string{"  gamma ltd  ", "third@gamma.test"},
	)

	records, err := NewExtractor(DefaultColumns()).Extract(rows)
	require.NoError(t, err)

	assert.Equal(t, []models.RegistryRecord{
		{Name: "Gamma Ltd", Email: "first@gamma.test"},
		{Name: "Delta Inc", Email: "delta@delta.test"},
	}, records)
}

func TestExtractSkippedRowDoesNotReserveName(t *testing.T) {
	rows := newSliceRows(
		header(),
		[]string{"Acme Corp", "   "},
		[]string{"ACME CORP", "late@acme.test"},
	)

	records, err := NewExtractor(DefaultColumns()).Extract(rows)
	require.NoError(t, err)

	assert.Equal(t, []models.RegistryRecord{{Name: "ACME CORP", Email: "late@acme.test"}}, records)
}

func TestExtractRaggedRowsAndExtraColumns(t *testing.T) {
	rows := newSliceRows(
		[]string{"ID", "", "Contact Email", "Notes", "Entity Name"},
		[]string{"1", "", "short@row.test"},
		[]string{"2", "x", "ok@row.test", "n/a", "Full Row Co"},
		[]string{},
	)

	records, err := NewExtractor(DefaultColumns()).Extract(rows)
	require.NoError(t, err)

	assert.Equal(t, []models.RegistryRecord{{Name: "Full Row Co", Email: "ok@row.test"}}, records)
}

func TestExtractDuplicateHeaderLastWins(t *testing.T) {
	rows := newSliceRows(
		[]string{"Contact Email", "Entity Name", "Contact Email"},
		[]string{"ignored@first.test", "Acme Corp", "used@last.test"},
	)

	records, err := NewExtractor(DefaultColumns()).Extract(rows)
	require.NoError(t, err)

	assert.Equal(t, []models.RegistryRecord{{Name: "Acme Corp", Email: "used@last.test"}}, records)
}

func TestExtractNoEmailValidation(t *testing.T) {
	rows := newSliceRows(header(), []string{"Odd Co", "not an email"})

	records, err := NewExtractor(DefaultColumns()).Extract(rows)
	require.NoError(t, err)

	assert.Equal(t, []models.RegistryRecord{{Name: "Odd Co", Email: "not an email"}}, records)
}

func TestExtractIsIdempotent(t *testing.T) {
	data := [][]string{
		header(),
		{"Acme Corp", "a@x.com"},
		{"Beta LLC", "b@x.com"},
	}
	extractor := NewExtractor(DefaultColumns())

	first, err := extractor.Extract(newSliceRows(data...))
	require.NoError(t, err)
	second, err := extractor.Extract(newSliceRows(data...))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second, 2)
}

func TestExtractCustomColumns(t *testing.T) {
	rows := newSliceRows(
		[]string{"Business", "Email"},
		[]string{"Acme Corp", "a@x.com"},
	)

	records, err := NewExtractor(Columns{Name: "Business", Email: "Email"}).Extract(rows)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestExtractPropagatesReadErrors(t *testing.T) {
	rows := newSliceRows(header(), []string{"Acme Corp", "a@x.com"}, []string{"Beta", "b@x.com"})
	rows.failAt = 2

	records, err := NewExtractor(DefaultColumns()).Extract(rows)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "row 3")

	iterFail := newSliceRows(header())
	iterFail.iterErr = stderrors.New("truncated archive")
	_, err = NewExtractor(DefaultColumns()).Extract(iterFail)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated archive")
}
