package budget

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
)

var monthLabels = []string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

func headerRow(label string) []model.Cell {
	row := []model.Cell{model.TextCell(label)}
	for _, m := range monthLabels {
		row = append(row, model.TextCell(m))
	}
	return append(row, model.TextCell("Total"))
}

func valueRow(category string, values ...string) []model.Cell {
	row := []model.Cell{model.TextCell(category)}
	for _, v := range values {
		row = append(row, model.TextCell(v))
	}
	return row
}

// testLayout puts the expense header on row 1 and the income header on row 5.
func testLayout() Layout {
	return Layout{ExpenseHeaderRow: 1, IncomeHeaderRow: 5, ReferenceYear: 2024, TotalLabel: "total"}
}

func testGrid() model.RawTable {
	return model.RawTable{Rows: [][]model.Cell{
		valueRow("Orçamento Familiar"),
		headerRow("Despesas"),
		valueRow("Aluguel", "R$ 1.500,00"),
		valueRow("", "99,00"),
		valueRow("Total Despesas", "1.500,00"),
		headerRow("Receitas"),
		valueRow("Salário", "5.000,00", "5.000,00"),
		valueRow("TOTAL", "10.000,00"),
	}}
}

func TestReshape_ExpenseScenario(t *testing.T) {
	res, err := Reshape(model.KindBudgetGrid, testGrid(), testLayout())
	require.NoError(t, err)
	require.Empty(t, res.RowErrors)
	require.Len(t, res.Transactions, 24, "one record per category and month")

	jan := res.Transactions[0]
	assert.Equal(t, "Aluguel", jan.Description)
	assert.True(t, jan.Amount.Equal(decimal.NewFromInt(-1500)), jan.Amount.String())
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), jan.Date)
	assert.Equal(t, model.TxExpense, jan.Type)
	assert.Equal(t, "", jan.Account)

	feb := res.Transactions[1]
	assert.True(t, feb.Amount.IsZero(), "empty cells melt to zero")
	assert.Equal(t, time.February, feb.Date.Month())
	assert.Equal(t, model.TxExpense, feb.Type)

	dec := res.Transactions[11]
	assert.Equal(t, time.December, dec.Date.Month())
}

func TestReshape_IncomeBlock(t *testing.T) {
	res, err := Reshape(model.KindBudgetGrid, testGrid(), testLayout())
	require.NoError(t, err)

	income := res.Transactions[12:]
	require.Len(t, income, 12)
	for _, txn := range income {
		assert.Equal(t, "Salário", txn.Description)
		assert.Equal(t, model.TxIncome, txn.Type)
	}
	assert.Equal(t, "5000", income[0].Amount.String())
	assert.Equal(t, "5000", income[1].Amount.String())
	assert.True(t, income[2].Amount.IsZero())
}

func TestReshape_NegativeIncomeBecomesExpense(t *testing.T) {
	grid := testGrid()
	grid.Rows[6] = valueRow("Estorno", "-200,00")

	res, err := Reshape(model.KindBudgetGrid, grid, testLayout())
	require.NoError(t, err)
	refund := res.Transactions[12]
	assert.Equal(t, "-200", refund.Amount.String())
	assert.Equal(t, model.TxExpense, refund.Type)
}

func TestReshape_NativeNumbersAndBadCells(t *testing.T) {
	grid := testGrid()
	grid.Rows[2][1] = model.NumberCell("1500", decimal.NewFromInt(1500))

	res, err := Reshape(model.KindBudgetGrid, grid, testLayout())
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 24)
	assert.Empty(t, res.RowErrors)
	assert.Equal(t, "-1500", res.Transactions[0].Amount.String())

	grid.Rows[2] = append(grid.Rows[2], model.TextCell("abc"))
	res, err = Reshape(model.KindBudgetGrid, grid, testLayout())
	require.NoError(t, err)
	require.Len(t, res.RowErrors, 1)
	assert.Equal(t, 3, res.RowErrors[0].Row)
	assert.Equal(t, "amount", res.RowErrors[0].Field)
	assert.Contains(t, res.RowErrors[0].Value, "Aluguel/Fevereiro")
	assert.Len(t, res.Transactions, 23)
}

func TestReshape_TotalColumnIgnored(t *testing.T) {
	grid := testGrid()
	row := valueRow("Aluguel")
	for range monthLabels {
		row = append(row, model.TextCell("100,00"))
	}
	grid.Rows[2] = append(row, model.TextCell("não é número"))

	res, err := Reshape(model.KindBudgetGrid, grid, testLayout())
	require.NoError(t, err)
	assert.Empty(t, res.RowErrors)
	assert.Equal(t, "-100", res.Transactions[11].Amount.String())
}

func TestReshape_SectionTitlesSkipped(t *testing.T) {
	grid := testGrid()
	grid.Rows[3] = valueRow("MORADIA")

	res, err := Reshape(model.KindBudgetGrid, grid, testLayout())
	require.NoError(t, err)
	require.Len(t, res.Transactions, 24)
	for _, txn := range res.Transactions {
		assert.NotEqual(t, "MORADIA", txn.Description)
	}

	grid.Rows[3] = valueRow("Condomínio", "", "", "450,00")
	res, err = Reshape(model.KindBudgetGrid, grid, testLayout())
	require.NoError(t, err)
	require.Len(t, res.Transactions, 36)
	assert.Equal(t, "Condomínio", res.Transactions[12].Description)
	assert.True(t, res.Transactions[12].Amount.IsZero())
	assert.Equal(t, "-450", res.Transactions[14].Amount.String())
}

func TestReshape_WrongKind(t *testing.T) {
	for _, kind := range []model.SourceKind{model.KindDelimited, model.KindFlatSheet} {
		_, err := Reshape(kind, testGrid(), testLayout())
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrFormat)
	}
}

func TestReshape_LayoutErrors(t *testing.T) {
	_, err := Reshape(model.KindBudgetGrid, testGrid(), DefaultLayout())
	assert.ErrorIs(t, err, model.ErrFormat, "grid too short for the default layout")

	bad := testLayout()
	bad.IncomeHeaderRow = bad.ExpenseHeaderRow
	_, err = Reshape(model.KindBudgetGrid, testGrid(), bad)
	assert.ErrorIs(t, err, model.ErrFormat)

	grid := testGrid()
	grid.Rows[5] = valueRow("Receitas", "Janeiro", "Fevereiro")
	_, err = Reshape(model.KindBudgetGrid, grid, testLayout())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrFormat)
	assert.Contains(t, err.Error(), "income block")
	assert.Contains(t, err.Error(), "2 of 12 months")
}

func TestMonthNumber(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"Janeiro", 1},
		{"MARÇO", 3},
		{"marco", 3},
		{" Dez. ", 12},
		{"set", 9},
		{"September", 9},
		{"feb", 2},
		{"ago", 8},
	}
	for _, tt := range tests {
		got, ok := MonthNumber(tt.label)
		require.True(t, ok, tt.label)
		assert.Equal(t, tt.want, got, tt.label)
	}

	for _, label := range []string{"", "Total", "13", "Categoria"} {
		_, ok := MonthNumber(label)
		assert.False(t, ok, label)
	}
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, 2, l.ExpenseHeaderRow)
	assert.Equal(t, 20, l.IncomeHeaderRow)
	assert.Equal(t, 2024, l.ReferenceYear)
	assert.Equal(t, "total", l.TotalLabel)
}
