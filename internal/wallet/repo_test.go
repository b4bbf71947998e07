package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

func setupWalletTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	wallets := `
CREATE TABLE IF NOT EXISTS wallets (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL UNIQUE,
  balance NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	entries := `
CREATE TABLE IF NOT EXISTS wallet_entries (
  id TEXT PRIMARY KEY,
  wallet_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  type TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  ref_type TEXT NOT NULL,
  ref_id TEXT NOT NULL,
  note TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(wallets).Error)
	require.NoError(t, db.Exec(entries).Error)
	return db
}

func seedWallet(t *testing.T, db *gorm.DB, sellerID uuid.UUID, balance string) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		ID:        uuid.New(),
		SellerID:  sellerID,
		Balance:   decimal.RequireFromString(balance),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(wallet).Error)
	return wallet
}

func TestRepositoryDebitBalance_guard(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewRepository(db)
	sellerID := uuid.New()
	seedWallet(t, db, sellerID, "100.00")

	rows, err := repo.DebitBalance(context.Background(), sellerID, decimal.RequireFromString("45.00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	wallet, err := repo.FindWalletBySeller(context.Background(), sellerID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.RequireFromString("55.00")))

	// overdraw refused, balance untouched
	rows, err = repo.DebitBalance(context.Background(), sellerID, decimal.RequireFromString("60.00"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	wallet, err = repo.FindWalletBySeller(context.Background(), sellerID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.RequireFromString("55.00")))
}

func TestRepositoryCreditBalance(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewRepository(db)
	sellerID := uuid.New()
	seedWallet(t, db, sellerID, "10.00")

	rows, err := repo.CreditBalance(context.Background(), sellerID, decimal.RequireFromString("45.00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	wallet, err := repo.FindWalletBySeller(context.Background(), sellerID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.RequireFromString("55.00")))
}

func TestRepositoryListEntries_pagination(t *testing.T) {
	db := setupWalletTestDB(t)
	repo := NewRepository(db)
	sellerID := uuid.New()
	wallet := seedWallet(t, db, sellerID, "0")

	now := time.Now().UTC()
	for i, amount := range []string{"20.00", "30.00"} {
		entry := &models.WalletEntry{
			ID:        uuid.New(),
			WalletID:  wallet.ID,
			SellerID:  sellerID,
			Type:      enums.WalletEntryTypeCredit,
			Amount:    decimal.RequireFromString(amount),
			RefType:   enums.WalletEntryRefTypeTopUp,
			RefID:     uuid.New(),
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.AppendEntry(context.Background(), entry))
	}

	list, err := repo.ListEntries(context.Background(), sellerID, pagination.Params{Limit: 1})
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)
	assert.True(t, list.Entries[0].Amount.Equal(decimal.RequireFromString("30.00")))
	assert.NotEmpty(t, list.NextCursor)

	second, err := repo.ListEntries(context.Background(), sellerID, pagination.Params{Limit: 1, Cursor: list.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Entries, 1)
	assert.True(t, second.Entries[0].Amount.Equal(decimal.RequireFromString("20.00")))
	assert.Empty(t, second.NextCursor)
}
