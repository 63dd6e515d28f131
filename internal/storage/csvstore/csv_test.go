package csvstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendinha-dev/vendinha/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleDebts() []model.Debt {
	return []model.Debt{
		{
			ID:          "3f2b9c1e-6a7d-4e11-9b2a-0c1d2e3f4a5b",
			Name:        "Maria Silva",
			CPF:         "01234567890",
			Phone:       "11987654321",
			TotalValue:  dec("150.75"),
			PaidValue:   dec("50"),
			Month:       "01/2025",
			Observation: "pão, leite, \"café\"",
			CreatedAt:   time.Date(2025, 1, 3, 9, 15, 30, 123456789, time.FixedZone("BRT", -3*60*60)),
		},
		{
			ID:         "a0000000-0000-4000-8000-000000000000",
			Name:       "João",
			CPF:        "98765432100",
			TotalValue: dec("20"),
			PaidValue:  dec("20"),
			Month:      "02/2025",
			CreatedAt:  time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func assertSameDebts(t *testing.T, want, got []model.Debt) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].CPF, got[i].CPF)
		assert.Equal(t, want[i].Phone, got[i].Phone)
		assert.True(t, want[i].TotalValue.Equal(got[i].TotalValue), "total mismatch row %d", i)
		assert.True(t, want[i].PaidValue.Equal(got[i].PaidValue), "paid mismatch row %d", i)
		assert.Equal(t, want[i].Month, got[i].Month)
		assert.Equal(t, want[i].Observation, got[i].Observation)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt), "created_at mismatch row %d", i)
		assert.Equal(t, want[i].Status(), got[i].Status())
	}
}

func TestRoundTrip(t *testing.T) {
	debts := sampleDebts()

	var buf bytes.Buffer
	require.NoError(t, WriteDebts(&buf, debts))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))

	got, err := ReadDebts(&buf)
	require.NoError(t, err)
	assertSameDebts(t, debts, got)
}

func TestMarshalDebt(t *testing.T) {
	row := MarshalDebt(sampleDebts()[0])
	require.Len(t, row, numFields)
	assert.Equal(t, "150.75", row[colTotal])
	assert.Equal(t, "50", row[colPaid])
	assert.Equal(t, "PENDENTE", row[colStatus])
	assert.Equal(t, "2025-01-03T09:15:30.123456789-03:00", row[colCreatedAt])
}

func TestRoundTrip_SubCentAmounts(t *testing.T) {
	debts := []model.Debt{
		{
			ID:         "a",
			Name:       "Ana",
			CPF:        "12345678901",
			TotalValue: dec("10.004"),
			PaidValue:  dec("10"),
			Month:      "01/2025",
			CreatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	require.Equal(t, model.StatusPending, debts[0].Status())

	var buf bytes.Buffer
	require.NoError(t, WriteDebts(&buf, debts))
	got, err := ReadDebts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "10.004", got[0].TotalValue.String())
	assert.Equal(t, model.StatusPending, got[0].Status())
}

func TestUnmarshalDebt_StatusIsRecomputed(t *testing.T) {
	row := MarshalDebt(sampleDebts()[0])
	row[colStatus] = "QUITADA"

	d, err := UnmarshalDebt(row)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, d.Status())
}

func TestUnmarshalDebt_Errors(t *testing.T) {
	base := MarshalDebt(sampleDebts()[0])

	tests := []struct {
		name string
		col  int
		val  string
		want string
	}{
		{"bad total", colTotal, "abc", "parsing total_value"},
		{"bad paid", colPaid, "1,50", "parsing paid_value"},
		{"bad timestamp", colCreatedAt, "yesterday", "parsing created_at"},
	}
	for _, tt := range tests {
		row := append([]string(nil), base...)
		row[tt.col] = tt.val
		_, err := UnmarshalDebt(row)
		require.Error(t, err, tt.name)
		assert.Contains(t, err.Error(), tt.want, tt.name)
	}

	_, err := UnmarshalDebt(base[:3])
	assert.Error(t, err)
}

func TestReadDebts_HeaderOnly(t *testing.T) {
	debts, err := ReadDebts(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Nil(t, debts)
}

func TestRepository_LoadMissing(t *testing.T) {
	repo := New(filepath.Join(t.TempDir(), "data", "debts.csv"))
	debts, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, debts)
}

func TestRepository_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "debts.csv")
	repo := New(path)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleDebts()))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assertSameDebts(t, sampleDebts(), got)

	// Saving a smaller collection replaces the file.
	require.NoError(t, repo.Save(ctx, sampleDebts()[1:]))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assertSameDebts(t, sampleDebts()[1:], got)

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "debts.csv", entries[0].Name())
	require.NoError(t, repo.Close())
}
