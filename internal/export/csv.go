package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Wozniak7/Analisador-Financeiro/internal/id"
	"github.com/Wozniak7/Analisador-Financeiro/internal/model"
)

// Header is the CSV header of an exported transaction set.
const Header = "id,date,amount,type,account,description"

const (
	numFields  = 6
	dateFormat = "2006-01-02"
	colID      = 0
	colDate    = 1
	colAmount  = 2
	colType    = 3
	colAccount = 4
	colDesc    = 5
)

// MarshalTransaction converts a Transaction to a CSV row ([]string).
func MarshalTransaction(txID string, t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = txID
	row[colDate] = t.Date.Format(dateFormat)
	row[colAmount] = t.Amount.StringFixed(2)
	row[colType] = string(t.Type)
	row[colAccount] = t.Account
	row[colDesc] = t.Description
	return row
}

// WriteTransactions writes txns to w (including header), in order. Each row
// is numbered within its month.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	ids := id.Assign(txns)
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(ids[i], t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes txns to path, replacing any existing file.
func WriteFile(path string, txns []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := WriteTransactions(f, txns); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	return nil
}
