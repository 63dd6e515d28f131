package ledger

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vendinha-dev/vendinha/internal/id"
	"github.com/vendinha-dev/vendinha/internal/logging"
	"github.com/vendinha-dev/vendinha/internal/model"
)

// Store owns the ordered debt collection of one ledger and enforces its
// invariants. Insertion order is preserved. A Store is not safe for
// concurrent use; a multi-session variant would need to serialise creates
// per (cpf, month).
type Store struct {
	debts []model.Debt
	year  int
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithYear sets the calendar year whose month slots Create accepts.
func WithYear(year int) Option {
	return func(s *Store) { s.year = year }
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the debt ID source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger attaches a logger for mutation events.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a Store from a persisted snapshot. The snapshot is checked
// against the same invariants mutations enforce.
func New(snapshot []model.Debt, opts ...Option) (*Store, error) {
	s := &Store{
		year:  model.DefaultYear,
		now:   time.Now,
		newID: id.New,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	seenIDs := make(map[string]bool, len(snapshot))
	for i, d := range snapshot {
		if d.ID == "" {
			return nil, fmt.Errorf("snapshot row %d: %w", i+1, ValidationError{Field: "id", Description: "must not be empty"})
		}
		if seenIDs[d.ID] {
			return nil, fmt.Errorf("snapshot row %d: %w", i+1, ValidationError{Field: "id", Description: fmt.Sprintf("duplicate id %s", d.ID)})
		}
		if err := validateFields(d.Name, d.CPF, d.Phone, d.TotalValue); err != nil {
			return nil, fmt.Errorf("snapshot row %d: %w", i+1, err)
		}
		if _, _, err := model.ParseMonth(d.Month); err != nil {
			return nil, fmt.Errorf("snapshot row %d: %w", i+1, ValidationError{Field: "month", Description: err.Error()})
		}
		if err := checkBounds(d.ID, d.PaidValue, d.TotalValue); err != nil {
			return nil, fmt.Errorf("snapshot row %d: %w", i+1, err)
		}
		if existing, ok := s.find(d.CPF, d.Month); ok {
			return nil, fmt.Errorf("snapshot row %d: %w", i+1, DuplicateError{CPF: d.CPF, Month: d.Month, ExistingID: existing.ID})
		}
		seenIDs[d.ID] = true
		s.debts = append(s.debts, d)
	}
	return s, nil
}

// CreateParams holds the caller-supplied fields of a new debt.
type CreateParams struct {
	Name        string
	CPF         string
	Phone       string
	TotalValue  decimal.Decimal
	PaidValue   decimal.Decimal
	Month       string
	Observation string
}

// Create validates params, rejects an existing (cpf, month) pair, and
// appends a new debt with a fresh ID and creation time.
func (s *Store) Create(params CreateParams) (model.Debt, error) {
	if err := validateFields(params.Name, params.CPF, params.Phone, params.TotalValue); err != nil {
		return model.Debt{}, err
	}
	if err := s.validateMonth(params.Month); err != nil {
		return model.Debt{}, err
	}
	if err := checkBounds("", params.PaidValue, params.TotalValue); err != nil {
		return model.Debt{}, err
	}
	if existing, ok := s.find(params.CPF, params.Month); ok {
		return model.Debt{}, DuplicateError{CPF: params.CPF, Month: params.Month, ExistingID: existing.ID}
	}

	debtID := s.newID()
	for s.indexOf(debtID) >= 0 {
		debtID = s.newID()
	}

	debt := model.Debt{
		ID:          debtID,
		Name:        strings.TrimSpace(params.Name),
		CPF:         params.CPF,
		Phone:       params.Phone,
		TotalValue:  params.TotalValue,
		PaidValue:   params.PaidValue,
		Month:       params.Month,
		Observation: strings.TrimSpace(params.Observation),
		CreatedAt:   s.now(),
	}
	s.debts = append(s.debts, debt)

	s.log.Debug().
		Str(logging.FieldDebtID, debt.ID).
		Str(logging.FieldCPF, debt.CPF).
		Str(logging.FieldMonth, debt.Month).
		Str("status", string(debt.Status())).
		Msg("debt created")
	return debt, nil
}

// Import appends an existing debt, keeping its CreatedAt. A missing or
// colliding ID is replaced with a fresh one. Month tokens from any year
// are accepted so history from earlier ledgers can be brought in.
func (s *Store) Import(debt model.Debt) (model.Debt, error) {
	if err := validateFields(debt.Name, debt.CPF, debt.Phone, debt.TotalValue); err != nil {
		return model.Debt{}, err
	}
	if _, _, err := model.ParseMonth(debt.Month); err != nil {
		return model.Debt{}, ValidationError{Field: "month", Description: err.Error()}
	}
	if err := checkBounds(debt.ID, debt.PaidValue, debt.TotalValue); err != nil {
		return model.Debt{}, err
	}
	if existing, ok := s.find(debt.CPF, debt.Month); ok {
		return model.Debt{}, DuplicateError{CPF: debt.CPF, Month: debt.Month, ExistingID: existing.ID}
	}

	for debt.ID == "" || s.indexOf(debt.ID) >= 0 {
		debt.ID = s.newID()
	}
	if debt.CreatedAt.IsZero() {
		debt.CreatedAt = s.now()
	}
	debt.Name = strings.TrimSpace(debt.Name)
	debt.Observation = strings.TrimSpace(debt.Observation)
	s.debts = append(s.debts, debt)

	s.log.Debug().Str(logging.FieldDebtID, debt.ID).Str(logging.FieldCPF, debt.CPF).Str(logging.FieldMonth, debt.Month).Msg("debt imported")
	return debt, nil
}

// RecordPayment replaces the paid value of a debt. The value is absolute;
// additive payments are resolved by the caller with ResolvePayment.
func (s *Store) RecordPayment(debtID string, paid decimal.Decimal) (model.Debt, error) {
	i := s.indexOf(debtID)
	if i < 0 {
		return model.Debt{}, NotFoundError{ID: debtID}
	}
	if err := checkBounds(debtID, paid, s.debts[i].TotalValue); err != nil {
		return model.Debt{}, err
	}

	before := s.debts[i].Status()
	s.debts[i].PaidValue = paid
	debt := s.debts[i]

	s.log.Debug().
		Str(logging.FieldDebtID, debt.ID).
		Str("paid", paid.StringFixed(2)).
		Str("status_before", string(before)).
		Str("status", string(debt.Status())).
		Msg("payment recorded")
	return debt, nil
}

// DeleteByCPF removes every debt for cpf across all months and returns
// how many were removed.
func (s *Store) DeleteByCPF(cpf string) int {
	before := len(s.debts)
	s.debts = slices.DeleteFunc(s.debts, func(d model.Debt) bool {
		return d.CPF == cpf
	})
	removed := before - len(s.debts)

	s.log.Debug().Str(logging.FieldCPF, cpf).Int("removed", removed).Msg("debts deleted")
	return removed
}

// Get returns the debt with the given ID.
func (s *Store) Get(debtID string) (model.Debt, bool) {
	i := s.indexOf(debtID)
	if i < 0 {
		return model.Debt{}, false
	}
	return s.debts[i], true
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store) Snapshot() []model.Debt {
	return slices.Clone(s.debts)
}

// IDs returns every debt ID in insertion order.
func (s *Store) IDs() []string {
	ids := make([]string, len(s.debts))
	for i, d := range s.debts {
		ids[i] = d.ID
	}
	return ids
}

// Len returns the number of debts.
func (s *Store) Len() int {
	return len(s.debts)
}

// Year returns the calendar year Create accepts month tokens for.
func (s *Store) Year() int {
	return s.year
}

func (s *Store) find(cpf, month string) (model.Debt, bool) {
	for _, d := range s.debts {
		if d.CPF == cpf && d.Month == month {
			return d, true
		}
	}
	return model.Debt{}, false
}

func (s *Store) indexOf(debtID string) int {
	return slices.IndexFunc(s.debts, func(d model.Debt) bool {
		return d.ID == debtID
	})
}

func (s *Store) validateMonth(month string) error {
	if !slices.Contains(model.MonthTokens(s.year), month) {
		return ValidationError{Field: "month", Description: fmt.Sprintf("%q is not a month of %d", month, s.year)}
	}
	return nil
}

func validateFields(name, cpf, phone string, total decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "name", Description: "must not be empty"}
	}
	if !model.ValidCPF(cpf) {
		return ValidationError{Field: "cpf", Description: fmt.Sprintf("%q must have exactly %d digits", cpf, model.CPFLength)}
	}
	if !model.ValidPhone(phone) {
		return ValidationError{Field: "phone", Description: fmt.Sprintf("%q must have at most %d digits", phone, model.MaxPhoneLength)}
	}
	if total.IsNegative() {
		return ValidationError{Field: "total value", Description: fmt.Sprintf("%s must not be negative", total.StringFixed(2))}
	}
	return nil
}

func checkBounds(debtID string, paid, total decimal.Decimal) error {
	if paid.IsNegative() || paid.GreaterThan(total) {
		return RangeError{ID: debtID, Paid: paid, Total: total}
	}
	return nil
}
