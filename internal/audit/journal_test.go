package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileJournal_Record(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)

	j.Record(context.Background(), Entry{
		Action:   ActionPayment,
		Entity:   EntityInstallment,
		EntityID: "abc",
		Changes:  map[string]any{"valor_pago": "30.00"},
	})
	j.Record(context.Background(), Entry{User: "ana", Action: ActionCancel, Entity: EntityCharge, EntityID: "def"})

	scanner := bufio.NewScanner(&buf)
	var lines []map[string]any
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}

	require.Len(t, lines, 2)
	assert.Equal(t, "payment", lines[0]["action"])
	assert.Equal(t, "system", lines[0]["user"])
	assert.Equal(t, "parcela", lines[0]["entity"])
	assert.Equal(t, map[string]any{"valor_pago": "30.00"}, lines[0]["changes"])
	assert.NotEmpty(t, lines[0]["timestamp"])
	assert.Equal(t, "ana", lines[1]["user"])
	assert.NotContains(t, lines[1], "changes")
}

func TestOpen_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	for i := 0; i < 2; i++ {
		j, err := Open(path)
		require.NoError(t, err)
		j.Record(context.Background(), Entry{Action: ActionCreate, Entity: EntityClient, EntityID: "x"})
		require.NoError(t, j.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
}
