package postgres

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessRowWithoutEditableData(t *testing.T) {
	row := businessRow{ID: uuid.New(), BusinessName: "Acme Corp"}

	biz := row.toModel()

	assert.Equal(t, row.ID, biz.ID)
	assert.Equal(t, "Acme Corp", biz.BusinessName)
	assert.Nil(t, biz.EditableData)
}

func TestBusinessRowWithEditableData(t *testing.T) {
	editableID := uuid.New()
	row := businessRow{
		ID:             uuid.New(),
		BusinessName:   "Beta LLC",
		EditableID:     uuid.NullUUID{UUID: editableID, Valid: true},
		PrimaryEmail:   sql.NullString{String: "b@beta.test", Valid: true},
		AlternateEmail: sql.NullString{},
		Tags:           pq.StringArray{"lead"},
	}

	biz := row.toModel()

	require.NotNil(t, biz.EditableData)
	assert.Equal(t, editableID, biz.EditableData.ID)
	assert.Equal(t, row.ID, biz.EditableData.BusinessID)
	require.NotNil(t, biz.EditableData.PrimaryEmail)
	assert.Equal(t, "b@beta.test", *biz.EditableData.PrimaryEmail)
	assert.Nil(t, biz.EditableData.AlternateEmail)
	assert.Equal(t, []string{"lead"}, biz.EditableData.Tags)
}

func TestBusinessRowNullTagsBecomeEmpty(t *testing.T) {
	row := businessRow{
		ID:         uuid.New(),
		EditableID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
	}

	biz := row.toModel()

	require.NotNil(t, biz.EditableData)
	assert.NotNil(t, biz.EditableData.Tags)
	assert.Empty(t, biz.EditableData.Tags)
}
