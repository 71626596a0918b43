package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/partyledger/internal/ledger/currency"
)

// Mode selects the direction a transaction moves currency relative to its
// initiator.
type Mode int

const (
	// ModeUnspecified represents an invalid mode value.
	ModeUnspecified Mode = iota
	// ModeGive debits the initiator and credits the participant.
	ModeGive
	// ModeTake credits the initiator and debits the participant.
	ModeTake
)

func (m Mode) String() string {
	switch m {
	case ModeGive:
		return "give"
	case ModeTake:
		return "take"
	default:
		return "unspecified"
	}
}

var (
	// ErrInvalidMode indicates a transaction mode that is neither give nor
	// take. Construction makes this unreachable; it guards internal
	// consistency, not user input.
	ErrInvalidMode = errors.New("transaction mode must be give or take")
	// ErrMissingInitiator indicates a transaction without an initiator.
	ErrMissingInitiator = errors.New("transaction initiator is required")
	// ErrAlreadyApplied indicates a transaction completed more than once.
	ErrAlreadyApplied = errors.New("transaction is already applied")
)

// Transaction is a proposed balance change between an initiator and a
// participant. It is owned by a campaign's pending queue until resolved,
// then either archived (applied) or dropped (denied).
type Transaction struct {
	Initiator   *Account
	Participant *Account
	Amounts     currency.Amounts
	Mode        Mode
	Reason      string

	applied bool
}

// NewTransaction creates a pending transaction. A nil participant targets
// the world sentinel.
func NewTransaction(initiator *Account, mode Mode, amounts currency.Amounts, participant *Account, reason string) (*Transaction, error) {
	if initiator == nil {
		return nil, ErrMissingInitiator
	}
	if mode != ModeGive && mode != ModeTake {
		return nil, ErrInvalidMode
	}
	if participant == nil {
		participant = NewWorldAccount()
	}
	return &Transaction{
		Initiator:   initiator,
		Participant: participant,
		Amounts:     amounts,
		Mode:        mode,
		Reason:      reason,
	}, nil
}

// RestoreTransaction rebuilds a transaction from persisted snapshot fields,
// including the applied flag of archived entries. It bypasses NewTransaction
// validation because snapshots are written from validated transactions.
func RestoreTransaction(initiator, participant *Account, mode Mode, amounts currency.Amounts, reason string, applied bool) *Transaction {
	if participant == nil {
		participant = NewWorldAccount()
	}
	return &Transaction{
		Initiator:   initiator,
		Participant: participant,
		Amounts:     amounts,
		Mode:        mode,
		Reason:      reason,
		applied:     applied,
	}
}

// Applied reports whether Complete has run.
func (t *Transaction) Applied() bool {
	return t.applied
}

// Complete applies the transaction to its accounts. Give subtracts the
// amounts from the initiator and, when the participant is tracked, adds them
// to the participant; take mirrors. The world sentinel absorbs the mirrored
// delta without being stored. Complete must run exactly once.
func (t *Transaction) Complete() error {
	if t.applied {
		return ErrAlreadyApplied
	}

	var sign int
	switch t.Mode {
	case ModeGive:
		sign = -1
	case ModeTake:
		sign = 1
	default:
		return ErrInvalidMode
	}

	for _, d := range currency.Denominations() {
		t.Initiator.Balance.Add(d, sign*t.Amounts.Get(d))
		if !t.Participant.IsWorld() {
			t.Participant.Balance.Add(d, -sign*t.Amounts.Get(d))
		}
	}
	t.applied = true
	return nil
}

// Describe renders the transaction for pending listings:
// "Alice -> Bob: 3 GP, 2 SP (scale mail)".
func (t *Transaction) Describe() (string, error) {
	var arrow string
	switch t.Mode {
	case ModeGive:
		arrow = "->"
	case ModeTake:
		arrow = "<-"
	default:
		return "", ErrInvalidMode
	}

	var coins []string
	for _, d := range currency.Denominations() {
		if n := t.Amounts.Get(d); n != 0 {
			coins = append(coins, fmt.Sprintf("%d %s", n, d.Symbol()))
		}
	}

	reason := t.Reason
	if reason == "" {
		reason = "No reason given"
	}

	return fmt.Sprintf("%s %s %s: %s (%s)",
		t.Initiator.Name, arrow, t.Participant.Name, strings.Join(coins, ", "), reason), nil
}
