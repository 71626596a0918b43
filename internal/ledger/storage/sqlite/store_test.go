package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/louisbranch/partyledger/internal/ledger/currency"
	"github.com/louisbranch/partyledger/internal/ledger/domain"
	"github.com/louisbranch/partyledger/internal/ledger/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func testCampaign(t *testing.T) *domain.Campaign {
	t.Helper()
	campaign, err := domain.NewCampaign(42, 7)
	if err != nil {
		t.Fatalf("new campaign: %v", err)
	}
	if err := campaign.Register(1, "Alice"); err != nil {
		t.Fatalf("register Alice: %v", err)
	}
	if err := campaign.Register(2, "Bob"); err != nil {
		t.Fatalf("register Bob: %v", err)
	}
	alice, err := campaign.AccountByOwner(1)
	if err != nil {
		t.Fatalf("account by owner: %v", err)
	}
	bob, err := campaign.AccountByOwner(2)
	if err != nil {
		t.Fatalf("account by owner: %v", err)
	}
	alice.Balance = currency.Amounts{currency.Gold: 10}

	pending, err := domain.NewTransaction(alice, domain.ModeGive, currency.Amounts{currency.Gold: 3}, bob, "scale mail")
	if err != nil {
		t.Fatalf("new transaction: %v", err)
	}
	campaign.Propose(pending)

	archived, err := domain.NewTransaction(alice, domain.ModeTake, currency.Amounts{currency.Silver: 5}, nil, "")
	if err != nil {
		t.Fatalf("new transaction: %v", err)
	}
	campaign.Propose(archived)
	if err := campaign.Approve([]int{1}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	return campaign
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	campaign := testCampaign(t)

	if err := store.Save(ctx, campaign); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load(ctx, campaign.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.ID != campaign.ID {
		t.Fatalf("id = %d, want %d", loaded.ID, campaign.ID)
	}
	if len(loaded.GMs) != 1 || loaded.GMs[0] != 7 {
		t.Fatalf("gms = %v, want [7]", loaded.GMs)
	}
	alice, err := loaded.AccountByName("Alice")
	if err != nil {
		t.Fatalf("account by name: %v", err)
	}
	// Alice held 10 gp and the archived take of 5 sp applied before save.
	if want := (currency.Amounts{currency.Silver: 5, currency.Gold: 10}); alice.Balance != want {
		t.Fatalf("Alice balance = %v, want %v", alice.Balance, want)
	}

	if len(loaded.Pending) != 1 {
		t.Fatalf("pending length = %d, want 1", len(loaded.Pending))
	}
	pending := loaded.Pending[0]
	if pending.Initiator.OwnerID != 1 || pending.Participant.OwnerID != 2 {
		t.Fatalf("pending accounts not rebound: %+v", pending)
	}
	if pending.Applied() {
		t.Fatalf("pending transaction decoded as applied")
	}
	if pending.Reason != "scale mail" {
		t.Fatalf("pending reason = %q", pending.Reason)
	}

	if len(loaded.Archive) != 1 {
		t.Fatalf("archive length = %d, want 1", len(loaded.Archive))
	}
	archived := loaded.Archive[0]
	if !archived.Applied() {
		t.Fatalf("archived transaction decoded as unapplied")
	}
	if !archived.Participant.IsWorld() {
		t.Fatalf("world participant not restored: %+v", archived.Participant)
	}
	if err := archived.Complete(); !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("replaying archived transaction: err = %v, want %v", err, domain.ErrAlreadyApplied)
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	campaign := testCampaign(t)

	if err := store.Save(ctx, campaign); err != nil {
		t.Fatalf("save: %v", err)
	}
	campaign.Deny([]int{0})
	if err := store.Save(ctx, campaign); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := store.Load(ctx, campaign.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Pending) != 0 {
		t.Fatalf("pending length = %d, want 0 after overwrite", len(loaded.Pending))
	}
}

func TestLoadMissing(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Load(context.Background(), 99); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("load missing error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestExistsAndDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	campaign := testCampaign(t)

	ok, err := store.Exists(ctx, campaign.ID)
	if err != nil || ok {
		t.Fatalf("exists before save = %v, %v", ok, err)
	}
	if err := store.Save(ctx, campaign); err != nil {
		t.Fatalf("save: %v", err)
	}
	ok, err = store.Exists(ctx, campaign.ID)
	if err != nil || !ok {
		t.Fatalf("exists after save = %v, %v", ok, err)
	}

	if err := store.Delete(ctx, campaign.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, campaign.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestLoadMigratesV1Snapshot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// A version 1 record carries a single gm field.
	v1 := []byte(`{
		"gm": 7,
		"accounts": [{"owner": 1, "name": "Alice", "balance": {"cp": 0, "sp": 0, "gp": 12, "pp": 0}}],
		"pending": [],
		"archive": []
	}`)
	if _, err := store.sqlDB.ExecContext(ctx,
		"INSERT INTO campaigns (id, version, snapshot, updated_at) VALUES (?, 1, ?, 0)", 42, v1,
	); err != nil {
		t.Fatalf("insert v1 row: %v", err)
	}

	loaded, err := store.Load(ctx, 42)
	if err != nil {
		t.Fatalf("load v1 snapshot: %v", err)
	}
	if len(loaded.GMs) != 1 || loaded.GMs[0] != 7 {
		t.Fatalf("migrated gms = %v, want [7]", loaded.GMs)
	}
	alice, err := loaded.AccountByName("Alice")
	if err != nil {
		t.Fatalf("account by name: %v", err)
	}
	if alice.Balance != (currency.Amounts{currency.Gold: 12}) {
		t.Fatalf("migrated balance = %v", alice.Balance)
	}

	// Saving writes the current version so the migration runs once.
	if err := store.Save(ctx, loaded); err != nil {
		t.Fatalf("save migrated campaign: %v", err)
	}
	var version int
	if err := store.sqlDB.QueryRowContext(ctx,
		"SELECT version FROM campaigns WHERE id = 42",
	).Scan(&version); err != nil {
		t.Fatalf("query version: %v", err)
	}
	if version != snapshotVersion {
		t.Fatalf("version after save = %d, want %d", version, snapshotVersion)
	}
}

func TestLoadUnknownVersion(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.sqlDB.ExecContext(ctx,
		"INSERT INTO campaigns (id, version, snapshot, updated_at) VALUES (?, 0, ?, 0)", 42, []byte(`{}`),
	); err != nil {
		t.Fatalf("insert row: %v", err)
	}
	if _, err := store.Load(ctx, 42); err == nil {
		t.Fatalf("expected error for unknown snapshot version")
	}
}

func TestMigrationsRunOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
