package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/segyhp/collection-engine/internal/domain"
)

type settingsRepository struct {
	db sqlx.ExtContext
}

func NewSettingsRepository(db sqlx.ExtContext) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) All(ctx context.Context) ([]*domain.Setting, error) {
	settings := []*domain.Setting{}
	query := `SELECT chave, valor, descricao, atualizado_em FROM configuracoes ORDER BY chave`
	if err := sqlx.SelectContext(ctx, r.db, &settings, query); err != nil {
		return nil, mapError(err)
	}
	return settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, setting *domain.Setting) error {
	query := r.db.Rebind(`
		INSERT INTO configuracoes (chave, valor, descricao, atualizado_em)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (chave) DO UPDATE SET valor = excluded.valor, atualizado_em = excluded.atualizado_em
	`)

	_, err := r.db.ExecContext(ctx, query, setting.Key, setting.Value, setting.Description, setting.UpdatedAt)
	return mapError(err)
}

// SettingsProvider reads the configuration table on every call so that
// calculations always see the current values.
type SettingsProvider struct {
	repo   SettingsRepository
	logger *logrus.Logger
}

func NewSettingsProvider(repo SettingsRepository, logger *logrus.Logger) *SettingsProvider {
	return &SettingsProvider{repo: repo, logger: logger}
}

// Settings returns typed settings, logging every key that fell back to its default.
func (p *SettingsProvider) Settings(ctx context.Context) (domain.Settings, error) {
	rows, err := p.repo.All(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	settings, warnings := domain.ParseSettings(values)
	for _, w := range warnings {
		p.logger.WithFields(logrus.Fields{
			"key":   w.Key,
			"value": w.Value,
		}).Warn(w.Error())
	}

	return settings, nil
}
