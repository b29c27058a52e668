package config

import (
	"testing"

	"registrymail/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"LOG_LEVEL", "REGISTRY_NAME_COLUMN", "REGISTRY_EMAIL_COLUMN", "REGISTRY_WORKBOOK",
		"DATABASE_URL", "SYNC_VERIFIED_TAG", "PORT", "GIN_MODE", "MAX_UPLOAD_MB",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Entity Name", cfg.Registry.NameColumn)
	assert.Equal(t, "Contact Email", cfg.Registry.EmailColumn)
	assert.Equal(t, "verified-license-email", cfg.Sync.VerifiedTag)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 32, cfg.Server.MaxUploadMB)
	assert.Error(t, cfg.RequireDatabase())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REGISTRY_NAME_COLUMN", "Business")
	t.Setenv("REGISTRY_EMAIL_COLUMN", "Email")
	t.Setenv("DATABASE_URL", "postgres://localhost/registry")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Business", cfg.Registry.NameColumn)
	assert.Equal(t, "Email", cfg.Registry.EmailColumn)
	assert.Equal(t, 32, cfg.Server.MaxUploadMB)
	assert.NoError(t, cfg.RequireDatabase())
}

func TestLoadRejectsSameColumns(t *testing.T) {
	t.Setenv("REGISTRY_NAME_COLUMN", "Contact")
	t.Setenv("REGISTRY_EMAIL_COLUMN", "Contact")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
