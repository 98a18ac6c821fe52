package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		period model.Period
		seq    int
		want   string
	}{
		{model.Period{Year: 2024, Month: 1}, 1, "2024-01-001"},
		{model.Period{Year: 2024, Month: 12}, 99, "2024-12-099"},
		{model.Period{Year: 2024, Month: 1}, 1234, "2024-01-1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.period, tt.seq))
	}
}

func TestAssign(t *testing.T) {
	day := func(m time.Month, d int) model.Transaction {
		return model.Transaction{Date: time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)}
	}
	txns := []model.Transaction{day(1, 5), day(2, 1), day(1, 3), day(1, 20)}

	assert.Equal(t, []string{"2024-01-001", "2024-02-001", "2024-01-002", "2024-01-003"}, Assign(txns))
	assert.Empty(t, Assign(nil))
}
