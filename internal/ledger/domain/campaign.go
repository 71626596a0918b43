package domain

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNameTaken indicates the account name is already registered.
	ErrNameTaken = errors.New("name is already taken")
	// ErrOwnerRegistered indicates the owner already has an account.
	ErrOwnerRegistered = errors.New("owner is already registered")
	// ErrReservedName indicates the name collides with a reserved keyword.
	ErrReservedName = errors.New("name is a reserved keyword")
	// ErrNotRegistered indicates the owner has no account in the campaign.
	ErrNotRegistered = errors.New("owner is not registered")
	// ErrUnknownAccount indicates no account exists under a name.
	ErrUnknownAccount = errors.New("no account with that name")
	// ErrMissingGM indicates a campaign constructed without a GM.
	ErrMissingGM = errors.New("campaign requires a GM")
)

// Campaign is an isolated ledger: accounts keyed by name, the ordered
// pending queue, the append-only archive and the GM set. The pending order
// is load-bearing; displayed ids are 1-based positions of the viewer-visible
// sublist, not stored identifiers.
type Campaign struct {
	ID       int64
	GMs      []int64
	Accounts map[string]*Account
	Owners   map[int64]string
	Pending  []*Transaction
	Archive  []*Transaction
}

// NewCampaign creates a campaign with the creator as sole GM.
func NewCampaign(id int64, gm int64) (*Campaign, error) {
	if gm == 0 {
		return nil, ErrMissingGM
	}
	return &Campaign{
		ID:       id,
		GMs:      []int64{gm},
		Accounts: make(map[string]*Account),
		Owners:   make(map[int64]string),
	}, nil
}

// IsGM reports whether the given identity holds GM authority.
func (c *Campaign) IsGM(ownerID int64) bool {
	return slices.Contains(c.GMs, ownerID)
}

// AddGM grants GM authority to an identity. Adding an existing GM is a
// no-op.
func (c *Campaign) AddGM(ownerID int64) {
	if !slices.Contains(c.GMs, ownerID) {
		c.GMs = append(c.GMs, ownerID)
	}
}

// AccountByOwner returns the account registered to the given identity.
func (c *Campaign) AccountByOwner(ownerID int64) (*Account, error) {
	name, ok := c.Owners[ownerID]
	if !ok {
		return nil, ErrNotRegistered
	}
	return c.Accounts[name], nil
}

// AccountByName returns the account registered under name.
func (c *Campaign) AccountByName(name string) (*Account, error) {
	account, ok := c.Accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccount, name)
	}
	return account, nil
}

// Register creates a zero-balance account for ownerID under name.
func (c *Campaign) Register(ownerID int64, name string) error {
	if _, taken := c.Owners[ownerID]; taken {
		return ErrOwnerRegistered
	}
	if _, taken := c.Accounts[name]; taken {
		return ErrNameTaken
	}
	if IsReservedName(name) {
		return ErrReservedName
	}
	c.Accounts[name] = &Account{OwnerID: ownerID, Name: name}
	c.Owners[ownerID] = name
	return nil
}

// Reregister renames the account registered to ownerID, preserving its
// balance.
func (c *Campaign) Reregister(ownerID int64, name string) error {
	previous, ok := c.Owners[ownerID]
	if !ok {
		return ErrNotRegistered
	}
	if _, taken := c.Accounts[name]; taken {
		return ErrNameTaken
	}
	if IsReservedName(name) {
		return ErrReservedName
	}
	account := c.Accounts[previous]
	delete(c.Accounts, previous)
	account.Name = name
	c.Accounts[name] = account
	c.Owners[ownerID] = name
	return nil
}

// Propose appends a transaction to the pending queue.
func (c *Campaign) Propose(tx *Transaction) {
	c.Pending = append(c.Pending, tx)
}

// VisiblePending returns the pending transactions the viewer may see, in
// queue order. A transaction is visible to its participant and to every GM.
func (c *Campaign) VisiblePending(viewerID int64) []*Transaction {
	var visible []*Transaction
	for _, tx := range c.Pending {
		if c.VisibleTo(tx, viewerID) {
			visible = append(visible, tx)
		}
	}
	return visible
}

// VisibleTo reports whether the viewer may see the transaction: the
// participant always may, and GMs see everything.
func (c *Campaign) VisibleTo(tx *Transaction, viewerID int64) bool {
	return tx.Participant.OwnerID == viewerID || c.IsGM(viewerID)
}

// Approve completes the transactions at the given global pending indices,
// moves them to the archive in ascending index order, and removes them from
// the queue in one pass preserving the order of the remainder. Indices must
// already be validated, deduplicated and sorted by the selection resolver.
func (c *Campaign) Approve(indices []int) error {
	for _, index := range indices {
		if err := c.Pending[index].Complete(); err != nil {
			return fmt.Errorf("complete pending transaction %d: %w", index, err)
		}
		c.Archive = append(c.Archive, c.Pending[index])
	}
	c.removePending(indices)
	return nil
}

// Deny removes the transactions at the given global pending indices without
// completing or archiving them.
func (c *Campaign) Deny(indices []int) {
	c.removePending(indices)
}

func (c *Campaign) removePending(indices []int) {
	remaining := make([]*Transaction, 0, len(c.Pending)-len(indices))
	for index, tx := range c.Pending {
		if !slices.Contains(indices, index) {
			remaining = append(remaining, tx)
		}
	}
	c.Pending = remaining
}
