package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
)

func sampleTxns() []model.Transaction {
	return []model.Transaction{
		{
			Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.NewFromInt(5000),
			Type:        model.TxIncome,
			Account:     "Nubank",
			Description: "Salário",
		},
		{
			Date:        time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("-250.4"),
			Type:        model.TxExpense,
			Description: "Mercado, feira",
		},
	}
}

func TestWriteTransactions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, sampleTxns()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "date", "amount", "type", "account", "description"}, records[0])
	assert.Equal(t, []string{"2024-01-001", "2024-01-05", "5000.00", "Income", "Nubank", "Salário"}, records[1])
	assert.Equal(t, []string{"2024-01-002", "2024-01-07", "-250.40", "Expense", "", "Mercado, feira"}, records[2])
}

func TestWriteTransactions_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, nil))
	assert.Equal(t, Header+"\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteFile(path, sampleTxns()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Mercado, feira"`)

	err = WriteFile(filepath.Join(t.TempDir(), "missing", "out.csv"), nil)
	assert.Error(t, err)
}
