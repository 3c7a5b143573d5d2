package app

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/collection-engine/internal/config"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/repository"
	"github.com/segyhp/collection-engine/internal/schedule"
)

func TestNew_SQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver: repository.DriverSQLite,
			URL:    filepath.Join(dir, "app.db"),
		},
		Scheduler: config.SchedulerConfig{Timezone: "UTC"},
		Business: config.BusinessConfig{
			RatePlans:         schedule.DefaultRatePlans,
			SettlementEpsilon: "0.01",
		},
		Audit: config.AuditConfig{JournalPath: filepath.Join(dir, "audit.log")},
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	a, err := New(context.Background(), cfg, logger, Options{Migrate: true})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Redis)

	client, err := a.Service.CreateClient(context.Background(), &domain.ClientRequest{Name: "Maria Souza"}, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", client.Name)

	assert.FileExists(t, cfg.Audit.JournalPath)
}
