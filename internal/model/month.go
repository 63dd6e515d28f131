package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultYear is the calendar year whose twelve month slots a new ledger accepts.
const DefaultYear = 2025

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// FormatMonth returns a month token like "01/2025".
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%02d/%04d", month, year)
}

// ParseMonth parses "01/2025" into month and year.
func ParseMonth(token string) (month, year int, err error) {
	parts := strings.SplitN(token, "/", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 4 {
		return 0, 0, fmt.Errorf("invalid month token %q: want MM/YYYY", token)
	}
	month, err = strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month in %q", token)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in %q: %w", token, err)
	}
	return month, year, nil
}

// MonthTokens returns the twelve month slots of a year, January first.
func MonthTokens(year int) []string {
	tokens := make([]string, 12)
	for i := range tokens {
		tokens[i] = FormatMonth(year, i+1)
	}
	return tokens
}

// MonthLabel renders a token as "Janeiro 2025". Unknown tokens are returned as-is.
func MonthLabel(token string) string {
	month, year, err := ParseMonth(token)
	if err != nil {
		return token
	}
	return fmt.Sprintf("%s %d", monthNames[month-1], year)
}
