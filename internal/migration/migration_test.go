package migration

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	statements []string
	failOn     string
}

func (r *recordingExecer) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	if r.failOn != "" && strings.Contains(query, r.failOn) {
		return nil, stderrors.New("permission denied")
	}
	r.statements = append(r.statements, strings.TrimSpace(query))
	return nil, nil
}

func TestRunCreatesTablesInOrder(t *testing.T) {
	db := &recordingExecer{}

	require.NoError(t, NewRunner().Run(context.Background(), db))

	require.Len(t, db.statements, 2)
	assert.Contains(t, db.statements[0], "CREATE TABLE IF NOT EXISTS businesses")
	assert.Contains(t, db.statements[1], "CREATE TABLE IF NOT EXISTS editable_business_data")
	assert.Contains(t, db.statements[1], "business_id UUID NOT NULL UNIQUE")
}

func TestRunStopsOnFailure(t *testing.T) {
	db := &recordingExecer{failOn: "editable_business_data"}

	err := NewRunner().Run(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editable_business_data")
	assert.Len(t, db.statements, 1)
	assert.Equal(t, "1.0.0", NewRunner().Version())
}
