package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	customError "github.com/segyhp/collection-engine/pkg/errors"
	"github.com/segyhp/collection-engine/pkg/utils"
)

// Client is a debtor. It carries no money state of its own.
type Client struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"nome"`
	Document       string    `json:"document,omitempty" db:"cpf_cnpj"`
	Email          string    `json:"email,omitempty" db:"email"`
	Phone          string    `json:"phone,omitempty" db:"telefone"`
	SecondaryPhone string    `json:"secondary_phone,omitempty" db:"telefone_secundario"`
	Address        string    `json:"address,omitempty" db:"endereco"`
	City           string    `json:"city,omitempty" db:"cidade"`
	State          string    `json:"state,omitempty" db:"estado"`
	PostalCode     string    `json:"postal_code,omitempty" db:"cep"`
	Notes          string    `json:"notes,omitempty" db:"observacoes"`
	Company        string    `json:"company,omitempty" db:"empresa"`
	CreatedAt      time.Time `json:"created_at" db:"criado_em"`
	UpdatedAt      time.Time `json:"updated_at" db:"atualizado_em"`
}

// NewClient builds a client from a request, normalizing the document to digits.
func NewClient(req *ClientRequest, now time.Time) (*Client, error) {
	c := &Client{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Apply(req); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply copies editable fields from req.
func (c *Client) Apply(req *ClientRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return customError.WrapInvalidInput("client name is required")
	}
	document, err := NormalizeDocument(req.Document)
	if err != nil {
		return err
	}

	c.Name = name
	c.Document = document
	c.Email = strings.TrimSpace(req.Email)
	c.Phone = strings.TrimSpace(req.Phone)
	c.SecondaryPhone = strings.TrimSpace(req.SecondaryPhone)
	c.Address = req.Address
	c.City = req.City
	c.State = req.State
	c.PostalCode = req.PostalCode
	c.Notes = req.Notes
	c.Company = strings.TrimSpace(req.Company)
	return nil
}

// NormalizeDocument strips punctuation from a CPF/CNPJ. Empty is allowed.
func NormalizeDocument(document string) (string, error) {
	if strings.TrimSpace(document) == "" {
		return "", nil
	}
	digits := utils.OnlyDigits(document)
	if !ValidDocument(digits) {
		return "", customError.WrapInvalidDocument(document)
	}
	return digits, nil
}

// ValidDocument accepts 11 (CPF) or 14 (CNPJ) digits.
func ValidDocument(document string) bool {
	digits := utils.OnlyDigits(document)
	return len(digits) == 11 || len(digits) == 14
}

// ClientSummary is a client with its open position.
type ClientSummary struct {
	*Client
	PendingCharges int             `json:"pending_charges"`
	Outstanding    decimal.Decimal `json:"outstanding"`
}
