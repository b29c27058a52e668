package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"registrymail/internal/errors"
	"registrymail/models"
	"registrymail/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// BusinessRepositoryImpl implements BusinessRepository for PostgreSQL
type BusinessRepositoryImpl struct {
	db *sqlx.DB
}

// NewBusinessRepository creates a new PostgreSQL business repository
func NewBusinessRepository(db *sqlx.DB) ports.BusinessRepository {
	return &BusinessRepositoryImpl{db: db}
}

// businessRow is one business joined with its optional editable data
type businessRow struct {
	ID             uuid.UUID      `db:"id"`
	BusinessName   string         `db:"business_name"`
	EditableID     uuid.NullUUID  `db:"editable_id"`
	PrimaryEmail   sql.NullString `db:"primary_email"`
	AlternateEmail sql.NullString `db:"alternate_email"`
	Tags           pq.StringArray `db:"tags"`
}

// ListBusinesses returns every business with its editable data, if any
func (r *BusinessRepositoryImpl) ListBusinesses(ctx context.Context) ([]*models.Business, error) {
	var rows []businessRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT b.id, b.business_name,
			e.id AS editable_id, e.primary_email, e.alternate_email, e.tags
		FROM businesses b
		LEFT JOIN editable_business_data e ON e.business_id = b.id
		ORDER BY b.created_at, b.id
	`)
	if err != nil {
		return nil, errors.DatabaseError("failed to list businesses", err)
	}

	businesses := make([]*models.Business, 0, len(rows))
	for _, row := range rows {
		businesses = append(businesses, row.toModel())
	}
	return businesses, nil
}

func (row businessRow) toModel() *models.Business {
	biz := &models.Business{
		ID:           row.ID,
		BusinessName: row.BusinessName,
	}
	if !row.EditableID.Valid {
		return biz
	}

	biz.EditableData = &models.EditableBusinessData{
		ID:             row.EditableID.UUID,
		BusinessID:     row.ID,
		PrimaryEmail:   nullableString(row.PrimaryEmail),
		AlternateEmail: nullableString(row.AlternateEmail),
		Tags:           []string(row.Tags),
	}
	if biz.EditableData.Tags == nil {
		biz.EditableData.Tags = []string{}
	}
	return biz
}

// CreateEditableData inserts editable data for a business that has none
func (r *BusinessRepositoryImpl) CreateEditableData(ctx context.Context, data *models.EditableBusinessData) error {
	if data.ID == uuid.Nil {
		data.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO editable_business_data (id, business_id, primary_email, alternate_email, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, data.ID, data.BusinessID, data.PrimaryEmail, data.AlternateEmail, pq.StringArray(data.Tags))

	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return errors.DatabaseError("editable data already exists for business "+data.BusinessID.String(), err)
		}
		return errors.DatabaseError("failed to create editable data", err)
	}
	return nil
}

// UpdateEditableData applies a partial update; nil fields keep their value
func (r *BusinessRepositoryImpl) UpdateEditableData(ctx context.Context, id uuid.UUID, update models.EditableDataUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE editable_business_data
		SET primary_email = COALESCE($2::text, primary_email),
			alternate_email = COALESCE($3::text, alternate_email),
			tags = COALESCE($4::text[], tags),
			updated_at = NOW()
		WHERE id = $1
	`, id, update.PrimaryEmail, update.AlternateEmail, pq.StringArray(update.Tags))
	if err != nil {
		return errors.DatabaseError("failed to update editable data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("failed to read update result", err)
	}
	if affected == 0 {
		return errors.NotFound("editable data " + id.String())
	}
	return nil
}

func nullableString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
