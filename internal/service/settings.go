package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/segyhp/collection-engine/internal/audit"
	"github.com/segyhp/collection-engine/internal/domain"
	"github.com/segyhp/collection-engine/internal/repository"
	customError "github.com/segyhp/collection-engine/pkg/errors"
)

// GetSettings returns the stored rows and the values calculations will use.
func (s *BillingService) GetSettings(ctx context.Context) (*domain.SettingsSnapshot, error) {
	rows, err := s.repos.Settings.All(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.SettingsSnapshot{
		Effective: s.calculator.Settings(ctx),
		Rows:      rows,
	}, nil
}

// UpdateSettings validates every key first and writes none of them if any
// is rejected.
func (s *BillingService) UpdateSettings(ctx context.Context, values map[string]string, user string) (*domain.SettingsSnapshot, error) {
	if len(values) == 0 {
		return nil, customError.WrapInvalidInput("no settings given")
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var problems []string
	for _, key := range keys {
		if err := domain.ValidateSetting(key, values[key]); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(problems) > 0 {
		return nil, customError.WrapInvalidInput(strings.Join(problems, "; "))
	}

	now := time.Now().UTC()
	err := s.withinTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		for _, key := range keys {
			def, _ := domain.DefinitionFor(key)
			setting := &domain.Setting{
				Key:         key,
				Value:       strings.TrimSpace(values[key]),
				Description: def.Description,
				UpdatedAt:   now,
			}
			if err := repos.Settings.Upsert(ctx, setting); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		s.record(ctx, user, audit.ActionSettingChange, audit.EntitySetting, key, map[string]any{"valor": values[key]})
	}
	s.logger.WithField("keys", keys).Info("settings updated")

	return s.GetSettings(ctx)
}
