package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendinha-dev/vendinha/internal/model"
	"github.com/vendinha-dev/vendinha/internal/query"
)

// DefaultTitle is the first line of a report when Options.Title is empty.
const DefaultTitle = "RELATÓRIO DE DÍVIDAS - SISTEMA VENDINHA"

// RuleWidth is the width of the separator lines.
const RuleWidth = 60

// timestampFormat matches pt-BR locale rendering: "19/10/2026, 14:03:05".
const timestampFormat = "02/01/2006, 15:04:05"

// Options control report rendering.
type Options struct {
	Title       string
	GeneratedAt time.Time
	Location    *time.Location // timestamps are rendered in this zone; nil keeps them as given
}

// Generate renders debts as a plain-text report: a header, a summary block
// and one detail block per debt in input order. The output depends only on
// its arguments.
func Generate(debts []model.Debt, opts Options) string {
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	rule := strings.Repeat("=", RuleWidth)
	sum := query.Summarize(debts)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "Gerado em: %s\n", formatTime(opts.GeneratedAt, opts.Location))
	fmt.Fprintf(&b, "%s\n\n", rule)

	b.WriteString("RESUMO GERAL:\n")
	fmt.Fprintf(&b, "Total de Dívidas: %d\n", sum.Count)
	fmt.Fprintf(&b, "Dívidas Pendentes: %d\n", sum.Pending)
	fmt.Fprintf(&b, "Dívidas Quitadas: %d\n", sum.Settled)
	fmt.Fprintf(&b, "Valor Total: %s\n", Money(sum.Total))
	fmt.Fprintf(&b, "Valor Recebido: %s\n", Money(sum.Paid))
	fmt.Fprintf(&b, "Valor Pendente: %s\n\n", Money(sum.Outstanding))

	fmt.Fprintf(&b, "%s\n\n", rule)
	b.WriteString("DETALHAMENTO DAS DÍVIDAS:\n\n")

	for i, d := range debts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d.Name)
		fmt.Fprintf(&b, "   CPF: %s\n", d.CPF)
		fmt.Fprintf(&b, "   Telefone: %s\n", d.Phone)
		fmt.Fprintf(&b, "   Mês: %s\n", d.Month)
		fmt.Fprintf(&b, "   Valor Total: %s\n", Money(d.TotalValue))
		fmt.Fprintf(&b, "   Valor Pago: %s\n", Money(d.PaidValue))
		fmt.Fprintf(&b, "   Valor Restante: %s\n", Money(d.Outstanding()))
		fmt.Fprintf(&b, "   Status: %s\n", d.Status())
		if d.Observation != "" {
			fmt.Fprintf(&b, "   Observação: %s\n", d.Observation)
		}
		fmt.Fprintf(&b, "   Cadastrado em: %s\n", formatTime(d.CreatedAt, opts.Location))
		b.WriteString("\n")
	}

	return b.String()
}

// Money renders an amount as "R$ 12.50".
func Money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(timestampFormat)
}
