package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/louisbranch/partyledger/internal/ledger/currency"
	"github.com/louisbranch/partyledger/internal/ledger/domain"
)

// snapshotVersion is the version written by Save. Loads of older versions
// pass through one forward migration per transition.
const snapshotVersion = 2

// snapshotV2 is the current snapshot payload. Transactions reference
// accounts by owner id; participant zero is the world sentinel.
type snapshotV2 struct {
	GMs      []int64               `json:"gms"`
	Accounts []snapshotAccount     `json:"accounts"`
	Pending  []snapshotTransaction `json:"pending"`
	Archive  []snapshotTransaction `json:"archive"`
}

// snapshotV1 predates the GM list: a single gm field holds the creator.
type snapshotV1 struct {
	GM       int64                 `json:"gm"`
	Accounts []snapshotAccount     `json:"accounts"`
	Pending  []snapshotTransaction `json:"pending"`
	Archive  []snapshotTransaction `json:"archive"`
}

type snapshotAccount struct {
	Owner   int64           `json:"owner"`
	Name    string          `json:"name"`
	Balance snapshotAmounts `json:"balance"`
}

type snapshotTransaction struct {
	Initiator   int64           `json:"initiator"`
	Participant int64           `json:"participant"`
	Mode        string          `json:"mode"`
	Amounts     snapshotAmounts `json:"amounts"`
	Reason      string          `json:"reason,omitempty"`
	Applied     bool            `json:"applied,omitempty"`
}

// snapshotAmounts spells out every denomination bucket explicitly.
type snapshotAmounts struct {
	CP int `json:"cp"`
	SP int `json:"sp"`
	GP int `json:"gp"`
	PP int `json:"pp"`
}

func toSnapshotAmounts(a currency.Amounts) snapshotAmounts {
	return snapshotAmounts{
		CP: a.Get(currency.Copper),
		SP: a.Get(currency.Silver),
		GP: a.Get(currency.Gold),
		PP: a.Get(currency.Platinum),
	}
}

func fromSnapshotAmounts(a snapshotAmounts) currency.Amounts {
	var amounts currency.Amounts
	amounts.Add(currency.Copper, a.CP)
	amounts.Add(currency.Silver, a.SP)
	amounts.Add(currency.Gold, a.GP)
	amounts.Add(currency.Platinum, a.PP)
	return amounts
}

// migrateV1 lifts the singular gm field into the GM list. This replaces the
// source system's habit of patching records when the missing field surfaced
// at read time.
func migrateV1(payload []byte) ([]byte, error) {
	var old snapshotV1
	if err := json.Unmarshal(payload, &old); err != nil {
		return nil, fmt.Errorf("unmarshal v1 snapshot: %w", err)
	}
	return json.Marshal(snapshotV2{
		GMs:      []int64{old.GM},
		Accounts: old.Accounts,
		Pending:  old.Pending,
		Archive:  old.Archive,
	})
}

// migrations maps each outdated version to the function that advances its
// payload by exactly one version.
var snapshotMigrations = map[int]func([]byte) ([]byte, error){
	1: migrateV1,
}

func encodeSnapshot(campaign *domain.Campaign) ([]byte, error) {
	snap := snapshotV2{GMs: campaign.GMs}

	for _, name := range campaign.Owners {
		account := campaign.Accounts[name]
		snap.Accounts = append(snap.Accounts, snapshotAccount{
			Owner:   account.OwnerID,
			Name:    account.Name,
			Balance: toSnapshotAmounts(account.Balance),
		})
	}

	for _, tx := range campaign.Pending {
		snap.Pending = append(snap.Pending, encodeTransaction(tx))
	}
	for _, tx := range campaign.Archive {
		snap.Archive = append(snap.Archive, encodeTransaction(tx))
	}
	return json.Marshal(snap)
}

func encodeTransaction(tx *domain.Transaction) snapshotTransaction {
	return snapshotTransaction{
		Initiator:   tx.Initiator.OwnerID,
		Participant: tx.Participant.OwnerID,
		Mode:        tx.Mode.String(),
		Amounts:     toSnapshotAmounts(tx.Amounts),
		Reason:      tx.Reason,
		Applied:     tx.Applied(),
	}
}

func decodeSnapshot(id int64, version int, payload []byte) (*domain.Campaign, error) {
	for version < snapshotVersion {
		migrate, ok := snapshotMigrations[version]
		if !ok {
			return nil, fmt.Errorf("no migration from snapshot version %d", version)
		}
		migrated, err := migrate(payload)
		if err != nil {
			return nil, fmt.Errorf("migrate snapshot v%d: %w", version, err)
		}
		payload = migrated
		version++
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}

	var snap snapshotV2
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	campaign := &domain.Campaign{
		ID:       id,
		GMs:      snap.GMs,
		Accounts: make(map[string]*domain.Account, len(snap.Accounts)),
		Owners:   make(map[int64]string, len(snap.Accounts)),
	}
	for _, a := range snap.Accounts {
		account := &domain.Account{
			OwnerID: a.Owner,
			Name:    a.Name,
			Balance: fromSnapshotAmounts(a.Balance),
		}
		campaign.Accounts[a.Name] = account
		campaign.Owners[a.Owner] = a.Name
	}

	var err error
	campaign.Pending, err = decodeTransactions(campaign, snap.Pending)
	if err != nil {
		return nil, fmt.Errorf("decode pending: %w", err)
	}
	campaign.Archive, err = decodeTransactions(campaign, snap.Archive)
	if err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	return campaign, nil
}

func decodeTransactions(campaign *domain.Campaign, snaps []snapshotTransaction) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	for i, s := range snaps {
		initiator, err := campaign.AccountByOwner(s.Initiator)
		if err != nil {
			return nil, fmt.Errorf("transaction %d initiator %d: %w", i, s.Initiator, err)
		}
		var participant *domain.Account
		if s.Participant != 0 {
			participant, err = campaign.AccountByOwner(s.Participant)
			if err != nil {
				return nil, fmt.Errorf("transaction %d participant %d: %w", i, s.Participant, err)
			}
		}
		var mode domain.Mode
		switch s.Mode {
		case domain.ModeGive.String():
			mode = domain.ModeGive
		case domain.ModeTake.String():
			mode = domain.ModeTake
		default:
			return nil, fmt.Errorf("transaction %d: unknown mode %q", i, s.Mode)
		}
		txs = append(txs, domain.RestoreTransaction(
			initiator, participant, mode, fromSnapshotAmounts(s.Amounts), s.Reason, s.Applied,
		))
	}
	return txs, nil
}
