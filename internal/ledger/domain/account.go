package domain

import (
	"fmt"

	"github.com/louisbranch/partyledger/internal/ledger/currency"
)

// WorldName is the reserved name of the untracked counterparty account.
const WorldName = "World"

// reservedNames may not be registered as account names.
var reservedNames = map[string]struct{}{
	WorldName: {},
	"all":     {},
}

// Account is a named balance held by a campaign participant.
//
// OwnerID is the chat identity the account belongs to. The world sentinel
// account has OwnerID zero and is never stored on a campaign.
type Account struct {
	OwnerID int64
	Name    string
	Balance currency.Amounts
}

// NewWorldAccount returns the sentinel counterparty for transactions without
// a tracked participant. Deltas applied to it are effectively currency
// created or destroyed.
func NewWorldAccount() *Account {
	return &Account{Name: WorldName}
}

// IsWorld reports whether the account is the untracked world sentinel.
func (a *Account) IsWorld() bool {
	return a != nil && a.OwnerID == 0
}

// DescribeBalance renders the account balance coin by coin with its
// reference-unit total, e.g. "[3 CP | 0 SP | 5 GP | 0 PP] (5.03 EGP)".
func (a *Account) DescribeBalance() string {
	return fmt.Sprintf("[%d CP | %d SP | %d GP | %d PP] (%s EGP)",
		a.Balance.Get(currency.Copper),
		a.Balance.Get(currency.Silver),
		a.Balance.Get(currency.Gold),
		a.Balance.Get(currency.Platinum),
		currency.ToReference(a.Balance).StringFixed(2),
	)
}

// IsReservedName reports whether name collides with a reserved keyword.
func IsReservedName(name string) bool {
	_, reserved := reservedNames[name]
	return reserved
}
