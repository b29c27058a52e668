package ports

import (
	"context"

	"registrymail/models"

	"github.com/google/uuid"
)

// BusinessRepository defines the storage operations the registry sync needs
type BusinessRepository interface {
	// ListBusinesses returns every business with its editable data, if any
	ListBusinesses(ctx context.Context) ([]*models.Business, error)

	// CreateEditableData inserts editable data for a business that has none
	CreateEditableData(ctx context.Context, data *models.EditableBusinessData) error

	// UpdateEditableData applies a partial update to existing editable data
	UpdateEditableData(ctx context.Context, id uuid.UUID, update models.EditableDataUpdate) error
}
