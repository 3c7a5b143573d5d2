package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/segyhp/collection-engine/pkg/errors"
)

func TestNewClient(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("normalizes document", func(t *testing.T) {
		c, err := NewClient(&ClientRequest{Name: " Maria ", Document: "123.456.789-01"}, now)
		require.NoError(t, err)
		assert.Equal(t, "Maria", c.Name)
		assert.Equal(t, "12345678901", c.Document)
		assert.Equal(t, now, c.CreatedAt)
	})

	t.Run("accepts cnpj and empty document", func(t *testing.T) {
		c, err := NewClient(&ClientRequest{Name: "ACME", Document: "12.345.678/0001-90"}, now)
		require.NoError(t, err)
		assert.Len(t, c.Document, 14)

		c, err = NewClient(&ClientRequest{Name: "No Doc"}, now)
		require.NoError(t, err)
		assert.Empty(t, c.Document)
	})

	t.Run("rejects bad document", func(t *testing.T) {
		_, err := NewClient(&ClientRequest{Name: "Bad", Document: "1234"}, now)
		assert.ErrorIs(t, err, customError.ErrInvalidDocument)
	})

	t.Run("requires name", func(t *testing.T) {
		_, err := NewClient(&ClientRequest{Name: "  "}, now)
		assert.ErrorIs(t, err, customError.ErrInvalidInput)
	})
}

func TestDateJSON(t *testing.T) {
	var req DueDateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":"2024-12-26"}`), &req))
	assert.Equal(t, time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC), req.DueDate.Time)

	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due_date":"2024-12-26"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"due_date":"26/12/2024"}`), &req))

	var empty DueDateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"due_date":null}`), &empty))
	assert.True(t, empty.DueDate.IsZero())
}
