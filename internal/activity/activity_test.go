package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 3, 10, 14, 5, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:  testTime,
		Action:     ActionCreate,
		Details:    "Maria Silva 03/2025 R$ 120.00",
		DebtID:     "3f2b9c1e-6a7d-4e11-9b2a-0c1d2e3f4a5b",
		CommitHash: "abc1234",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	log := Open(dir)
	require.NoError(t, log.Append(testEntry()))

	raw, err := os.ReadFile(filepath.Join(dir, "logs", "activity-log.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), Header+"\n"))

	entries, err := log.Read()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testEntry(), entries[0])
}

func TestAppend_ExistingFile(t *testing.T) {
	log := Open(t.TempDir())
	require.NoError(t, log.Append(testEntry()))

	pay := testEntry()
	pay.Action = ActionPay
	pay.Details = "paid 50.00"
	require.NoError(t, log.Append(pay))

	entries, err := log.Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionCreate, entries[0].Action)
	assert.Equal(t, ActionPay, entries[1].Action)

	raw, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(raw), Header), "header written once")
}

func TestAppend_Nothing(t *testing.T) {
	log := Open(t.TempDir())
	require.NoError(t, log.Append())
	_, err := os.Stat(log.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestRead_Missing(t *testing.T) {
	entries, err := Open(t.TempDir()).Read()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTail(t *testing.T) {
	log := Open(t.TempDir())
	for _, a := range []Action{ActionInit, ActionCreate, ActionPay, ActionDelete} {
		e := testEntry()
		e.Action = a
		require.NoError(t, log.Append(e))
	}

	last, err := log.Tail(2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, ActionPay, last[0].Action)
	assert.Equal(t, ActionDelete, last[1].Action)

	all, err := log.Tail(0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestReadEntries_Errors(t *testing.T) {
	_, err := ReadEntries(strings.NewReader(Header + "\nnot-a-time,create,x,y,z\n"))
	assert.ErrorContains(t, err, "row 2")

	_, err = ReadEntries(strings.NewReader(Header + "\na,b\n"))
	assert.Error(t, err)
}

func TestDetailsWithCommas(t *testing.T) {
	log := Open(t.TempDir())
	e := testEntry()
	e.Details = `pão, leite, "café"`
	require.NoError(t, log.Append(e))

	entries, err := log.Read()
	require.NoError(t, err)
	assert.Equal(t, e.Details, entries[0].Details)
}
