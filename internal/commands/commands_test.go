package commands_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendinha-dev/vendinha/internal/commands"
	"github.com/vendinha-dev/vendinha/internal/session"
	"github.com/vendinha-dev/vendinha/internal/workspace"
)

var testNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

// cli runs commands in-process against one workspace, sharing a clock and
// id sequence across invocations.
type cli struct {
	t   *testing.T
	dir string
	seq int
	now time.Time
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	c := &cli{t: t, dir: t.TempDir(), now: testNow}
	_, err := c.run("init", c.dir, "--name", "Mercadinho", "--no-git")
	require.NoError(t, err)
	return c
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	root := commands.NewRootCommand(
		workspace.WithClock(func() time.Time { return c.now }),
		workspace.WithIDGenerator(func() string {
			c.seq++
			return fmt.Sprintf("debt-%03d", c.seq)
		}),
	)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--dir", c.dir))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func (c *cli) login() {
	c.t.Helper()
	c.mustRun("login", "admin123")
}

func (c *cli) addDebt(name, cpf, total, paid, month string) {
	c.t.Helper()
	c.mustRun("add", "--name", name, "--cpf", cpf, "--total", total, "--paid", paid, "--month", month)
}

func TestInit_CreatesWorkspace(t *testing.T) {
	c := newCLI(t)
	for _, p := range []string{"vendinha.yaml", "data/debts.csv", "logs/activity-log.csv", ".gitignore"} {
		_, err := os.Stat(filepath.Join(c.dir, p))
		assert.NoError(t, err, p)
	}

	out, err := c.run("init", c.dir, "--name", "Again", "--no-git")
	assert.ErrorIs(t, err, workspace.ErrAlreadyInitialized, out)
}

func TestInit_RequiresName(t *testing.T) {
	c := &cli{t: t, dir: t.TempDir()}
	_, err := c.run("init", c.dir)
	assert.Error(t, err)
}

func TestCommands_RequireLogin(t *testing.T) {
	c := newCLI(t)
	for _, args := range [][]string{
		{"list"},
		{"report", "--stdout"},
		{"add", "--name", "Ana", "--cpf", "12345678901", "--total", "10", "--month", "01/2025"},
		{"delete", "--cpf", "12345678901"},
	} {
		_, err := c.run(args...)
		assert.ErrorIs(t, err, session.ErrNotAuthenticated, args[0])
	}
}

func TestLoginLogoutRecover(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("login", "wrong")
	assert.ErrorIs(t, err, session.ErrWrongPassword)

	assert.Contains(t, c.mustRun("recover", "vendinha"), "Password: admin123")
	_, err = c.run("recover", "nope")
	assert.ErrorIs(t, err, session.ErrWrongPhrase)

	c.login()
	c.mustRun("list")
	c.mustRun("logout")
	_, err = c.run("list")
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestAddAndList(t *testing.T) {
	c := newCLI(t)
	c.login()

	out := c.mustRun("add", "--name", "Maria Silva", "--cpf", "123.456.789-01", "--phone", "(11) 98765-4321",
		"--total", "150,75", "--month", "01/2025", "--obs", "pão e leite")
	assert.Contains(t, out, "Added debt-001: Maria Silva, Janeiro 2025, R$ 150.75 (PENDENTE)")

	c.addDebt("João", "98765432100", "20", "20", "02/2025")

	out = c.mustRun("list")
	assert.Contains(t, out, "Maria Silva")
	assert.Contains(t, out, "12345678901")
	assert.Contains(t, out, "QUITADA")
	assert.Contains(t, out, "Debts: 2  Pending: 1  Settled: 1")
	assert.Contains(t, out, "Total: R$ 170.75  Received: R$ 20.00  Outstanding: R$ 150.75")

	out = c.mustRun("list", "--status", "quitada")
	assert.NotContains(t, out, "Maria Silva")
	assert.Contains(t, out, "Debts: 1  Pending: 0  Settled: 1")

	out = c.mustRun("list", "--cpf", "456", "--month", "01/2025")
	assert.Contains(t, out, "Maria Silva")
	assert.NotContains(t, out, "João")

	out = c.mustRun("list", "--month", "12/2025")
	assert.Contains(t, out, "No debts found.")
	assert.Contains(t, out, "Debts: 0")

	_, err := c.run("list", "--status", "ATRASADA")
	assert.ErrorContains(t, err, "invalid status")
}

func TestAdd_Rejections(t *testing.T) {
	c := newCLI(t)
	c.login()
	c.addDebt("Ana", "12345678901", "100", "0", "03/2025")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"duplicate pair", []string{"--name", "Ana", "--cpf", "12345678901", "--total", "5", "--month", "03/2025"}, "already"},
		{"paid above total", []string{"--name", "Bia", "--cpf", "11111111111", "--total", "5", "--paid", "6", "--month", "03/2025"}, "out of range"},
		{"short cpf", []string{"--name", "Bia", "--cpf", "123", "--total", "5", "--month", "03/2025"}, "cpf"},
		{"month outside year", []string{"--name", "Bia", "--cpf", "11111111111", "--total", "5", "--month", "03/2024"}, "month"},
		{"bad amount", []string{"--name", "Bia", "--cpf", "11111111111", "--total", "cinco", "--month", "03/2025"}, "invalid total"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.run(append([]string{"add"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), tt.want)
		})
	}

	out := c.mustRun("list")
	assert.Contains(t, out, "Debts: 1 ")
}

func TestPay(t *testing.T) {
	c := newCLI(t)
	c.login()
	c.addDebt("Ana", "12345678901", "100", "0", "03/2025")

	out := c.mustRun("pay", "debt-001", "30")
	assert.Contains(t, out, "paid R$ 30.00 of R$ 100.00, remaining R$ 70.00 (PENDENTE)")

	out = c.mustRun("pay", "debt-0", "40,5")
	assert.Contains(t, out, "paid R$ 70.50 of R$ 100.00")

	out = c.mustRun("pay", "debt-001", "10", "--mode", "set")
	assert.Contains(t, out, "paid R$ 10.00 of R$ 100.00")

	_, err := c.run("pay", "debt-001", "95")
	assert.ErrorContains(t, err, "out of range")

	_, err = c.run("pay", "debt-001", "0")
	assert.ErrorContains(t, err, "amount")

	_, err = c.run("pay", "debt-001")
	assert.ErrorContains(t, err, "either an amount or --settle")

	_, err = c.run("pay", "nope", "1")
	assert.ErrorContains(t, err, "no debt matches")

	out = c.mustRun("pay", "debt-001", "--settle")
	assert.Contains(t, out, "remaining R$ 0.00 (QUITADA)")
}

func TestPay_AmbiguousPrefix(t *testing.T) {
	c := newCLI(t)
	c.login()
	c.addDebt("Ana", "12345678901", "10", "0", "03/2025")
	c.addDebt("Bia", "11111111111", "10", "0", "03/2025")

	_, err := c.run("pay", "debt", "1")
	assert.ErrorContains(t, err, "ambiguous")
}

func TestDelete(t *testing.T) {
	c := newCLI(t)
	c.login()
	c.addDebt("Ana", "12345678901", "10", "0", "01/2025")
	c.addDebt("Ana", "12345678901", "10", "10", "02/2025")
	c.addDebt("Bia", "11111111111", "10", "0", "01/2025")

	_, err := c.run("delete", "--cpf", "12345678901")
	assert.ErrorContains(t, err, "refusing to delete 2 debt(s)")

	out := c.mustRun("delete", "--cpf", "123.456.789-01", "--yes")
	assert.Contains(t, out, "Removed 2 debt(s)")

	out = c.mustRun("delete", "--cpf", "12345678901", "--yes")
	assert.Contains(t, out, "No debts for CPF 12345678901")

	out = c.mustRun("list")
	assert.Contains(t, out, "Bia")
	assert.NotContains(t, out, "Ana")
}

func TestReport(t *testing.T) {
	c := newCLI(t)
	c.login()
	c.addDebt("Ana", "12345678901", "100", "40", "01/2025")
	c.addDebt("Bia", "11111111111", "50", "50", "02/2025")

	out := c.mustRun("report", "--stdout", "--status", "PENDENTE")
	assert.True(t, strings.HasPrefix(out, "RELATÓRIO DE DÍVIDAS - SISTEMA VENDINHA\n"))
	assert.Contains(t, out, "Gerado em: 10/03/2025, 11:00:00")
	assert.Contains(t, out, "Total de Dívidas: 1\n")
	assert.Contains(t, out, "1. Ana\n")
	assert.NotContains(t, out, "Bia")

	out = c.mustRun("report")
	want := filepath.Join(c.dir, "exports", "relatorio-dividas-2025-03-10.txt")
	assert.Contains(t, out, "Report saved to "+want)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total de Dívidas: 2\n")
}

func TestReport_FileNamedByShopDate(t *testing.T) {
	c := newCLI(t)
	c.login()
	// 01:30 UTC on the 11th is still the evening of the 10th in São Paulo.
	c.now = time.Date(2025, 3, 11, 1, 30, 0, 0, time.UTC)

	out := c.mustRun("report")
	assert.Contains(t, out, filepath.Join(c.dir, "exports", "relatorio-dividas-2025-03-10.txt"))
}

func TestImport_QueuedLegacyFile(t *testing.T) {
	c := newCLI(t)
	c.login()
	c.addDebt("Ana", "12345678901", "10", "0", "01/2025")

	legacy := `[
  {"id":"1","name":"Ana","cpf":"12345678901","phone":"","totalValue":5,"paidValue":0,"month":"01/2025","observation":"","status":"PENDENTE","createdAt":"2025-01-02T10:00:00.000Z"},
  {"id":"2","name":"Bia","cpf":"11111111111","phone":"","totalValue":30,"paidValue":10,"month":"12/2024","observation":"","status":"PENDENTE","createdAt":"2024-12-05T10:00:00.000Z"}
]`
	importDir := filepath.Join(c.dir, "import")
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "vendinha-debts.json"), []byte(legacy), 0o644))

	out := c.mustRun("import", "--dry-run")
	assert.Contains(t, out, "Dry run: 1 would be imported, 1 skipped")
	_, err := os.Stat(filepath.Join(importDir, "vendinha-debts.json"))
	require.NoError(t, err, "dry run leaves the file queued")

	out = c.mustRun("import")
	assert.Contains(t, out, "skipped vendinha-debts.json item 1")
	assert.Contains(t, out, "vendinha-debts.json: 1 of 2 imported (legacy-json)")
	assert.Contains(t, out, "Imported 1 debt(s), skipped 1")

	_, err = os.Stat(filepath.Join(importDir, "processed", "vendinha-debts.json"))
	assert.NoError(t, err)

	out = c.mustRun("list", "--month", "12/2024")
	assert.Contains(t, out, "Bia")

	out = c.mustRun("import")
	assert.Contains(t, out, "Nothing to import")
}

func TestImport_UnknownFormat(t *testing.T) {
	c := newCLI(t)
	c.login()
	_, err := c.run("import", "--format", "xml", "x.xml")
	assert.ErrorContains(t, err, "unknown import format")
}

func TestHistory(t *testing.T) {
	c := newCLI(t)
	c.login()
	c.addDebt("Ana", "12345678901", "10", "0", "01/2025")
	c.mustRun("pay", "debt-001", "--settle")

	out := c.mustRun("history")
	assert.Contains(t, out, "init")
	assert.Contains(t, out, "create")
	assert.Contains(t, out, "pay")

	out = c.mustRun("history", "-n", "1")
	assert.NotContains(t, out, "create")
}

func TestVersion(t *testing.T) {
	root := commands.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "dev (commit: none")
}
