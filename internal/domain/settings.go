package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Setting keys persisted in the configuracoes table.
const (
	SettingMonthlyInterestRate = "taxa_juros_mensal"
	SettingPenaltyRate         = "taxa_multa"
	SettingToleranceDays       = "dias_tolerancia"
	SettingNoticeDays          = "dias_aviso_vencimento"
	SettingAutoNotify          = "envio_automatico"
	SettingDailyLateFee        = "multa_diaria_parcela"
)

// Setting is one persisted configuration row.
type Setting struct {
	Key         string    `json:"key" db:"chave"`
	Value       string    `json:"value" db:"valor"`
	Description string    `json:"description,omitempty" db:"descricao"`
	UpdatedAt   time.Time `json:"updated_at" db:"atualizado_em"`
}

// SettingDefinition describes a known key and its fallback value.
type SettingDefinition struct {
	Key         string
	Default     string
	Description string
}

// SettingDefinitions lists every key the engine reads.
var SettingDefinitions = []SettingDefinition{
	{SettingMonthlyInterestRate, "2.0", "Taxa de juros mensal (%)"},
	{SettingPenaltyRate, "10.0", "Taxa de multa por atraso (%)"},
	{SettingToleranceDays, "3", "Dias de tolerância antes de aplicar multa"},
	{SettingNoticeDays, "3", "Dias de antecedência para aviso de vencimento"},
	{SettingAutoNotify, "true", "Envio automático de notificações"},
	{SettingDailyLateFee, "0", "Multa diária por parcela em atraso (0 desativa)"},
}

// Settings is the typed view of the configuration table.
type Settings struct {
	MonthlyInterestRate decimal.Decimal `json:"taxa_juros_mensal"`
	PenaltyRate         decimal.Decimal `json:"taxa_multa"`
	ToleranceDays       int             `json:"dias_tolerancia"`
	NoticeDays          int             `json:"dias_aviso_vencimento"`
	AutoNotify          bool            `json:"envio_automatico"`
	DailyLateFee        decimal.Decimal `json:"multa_diaria_parcela"`
}

// DefaultSettings returns the fallback values used when a key is missing.
func DefaultSettings() Settings {
	s, _ := ParseSettings(nil)
	return s
}

// SettingWarning records a key that fell back to its default.
type SettingWarning struct {
	Key   string
	Value string
	Err   error
}

func (w SettingWarning) Error() string {
	if w.Err == nil {
		return fmt.Sprintf("setting %s missing, using default", w.Key)
	}
	return fmt.Sprintf("setting %s=%q invalid: %v", w.Key, w.Value, w.Err)
}

// ParseSettings converts raw key/value rows. Missing or malformed keys fall
// back to their defaults and are reported as warnings.
func ParseSettings(values map[string]string) (Settings, []SettingWarning) {
	var (
		s        Settings
		warnings []SettingWarning
	)
	for _, def := range SettingDefinitions {
		raw, ok := values[def.Key]
		if !ok {
			if values != nil {
				warnings = append(warnings, SettingWarning{Key: def.Key})
			}
			raw = def.Default
		} else if err := ValidateSetting(def.Key, raw); err != nil {
			warnings = append(warnings, SettingWarning{Key: def.Key, Value: raw, Err: err})
			raw = def.Default
		}
		s.assign(def.Key, raw)
	}
	return s, warnings
}

func (s *Settings) assign(key, raw string) {
	raw = strings.TrimSpace(raw)
	switch key {
	case SettingMonthlyInterestRate:
		s.MonthlyInterestRate = decimal.RequireFromString(raw)
	case SettingPenaltyRate:
		s.PenaltyRate = decimal.RequireFromString(raw)
	case SettingToleranceDays:
		s.ToleranceDays, _ = strconv.Atoi(raw)
	case SettingNoticeDays:
		s.NoticeDays, _ = strconv.Atoi(raw)
	case SettingAutoNotify:
		s.AutoNotify, _ = strconv.ParseBool(raw)
	case SettingDailyLateFee:
		s.DailyLateFee = decimal.RequireFromString(raw)
	}
}

// ValidateSetting checks a raw value against the type of its key.
func ValidateSetting(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case SettingMonthlyInterestRate, SettingPenaltyRate, SettingDailyLateFee:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if d.IsNegative() {
			return fmt.Errorf("must not be negative")
		}
	case SettingToleranceDays, SettingNoticeDays:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("not an integer")
		}
		if n < 0 {
			return fmt.Errorf("must not be negative")
		}
	case SettingAutoNotify:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("not a boolean")
		}
	default:
		return fmt.Errorf("unknown setting")
	}
	return nil
}

// DefinitionFor looks up a known key.
func DefinitionFor(key string) (SettingDefinition, bool) {
	for _, def := range SettingDefinitions {
		if def.Key == key {
			return def, true
		}
	}
	return SettingDefinition{}, false
}

// SettingsSnapshot is the stored rows together with the values in effect.
type SettingsSnapshot struct {
	Effective Settings   `json:"effective"`
	Rows      []*Setting `json:"rows"`
}
