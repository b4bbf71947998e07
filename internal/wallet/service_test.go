package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

type stubWalletRepo struct {
	wallet  *models.Wallet
	entries []*models.WalletEntry
}

func (s *stubWalletRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubWalletRepo) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	s.wallet = wallet
	return wallet, nil
}

func (s *stubWalletRepo) FindWalletBySeller(ctx context.Context, sellerID uuid.UUID) (*models.Wallet, error) {
	if s.wallet == nil || s.wallet.SellerID != sellerID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.wallet, nil
}

func (s *stubWalletRepo) DebitBalance(ctx context.Context, sellerID uuid.UUID, amount decimal.Decimal) (int64, error) {
	if s.wallet == nil || s.wallet.SellerID != sellerID {
		return 0, nil
	}
	if s.wallet.Balance.LessThan(amount) {
		return 0, nil
	}
	s.wallet.Balance = s.wallet.Balance.Sub(amount)
	return 1, nil
}

func (s *stubWalletRepo) CreditBalance(ctx context.Context, sellerID uuid.UUID, amount decimal.Decimal) (int64, error) {
	if s.wallet == nil || s.wallet.SellerID != sellerID {
		return 0, nil
	}
	s.wallet.Balance = s.wallet.Balance.Add(amount)
	return 1, nil
}

func (s *stubWalletRepo) AppendEntry(ctx context.Context, entry *models.WalletEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubWalletRepo) ListEntries(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*LedgerList, error) {
	panic("not implemented")
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func TestDebitInsufficientBalance(t *testing.T) {
	sellerID := uuid.New()
	repo := &stubWalletRepo{
		wallet: &models.Wallet{
			ID:       uuid.New(),
			SellerID: sellerID,
			Balance:  decimal.RequireFromString("10.00"),
		},
	}
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	err = svc.Debit(context.Background(), &gorm.DB{}, sellerID, decimal.RequireFromString("45.00"), enums.WalletEntryRefTypeOrder, uuid.New(), nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error %v", err)
	}
	if len(repo.entries) != 0 {
		t.Fatalf("unexpected ledger entries %d", len(repo.entries))
	}
	if !repo.wallet.Balance.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("balance changed to %s", repo.wallet.Balance)
	}
}

func TestDebitRecordsEntry(t *testing.T) {
	sellerID := uuid.New()
	orderID := uuid.New()
	repo := &stubWalletRepo{
		wallet: &models.Wallet{
			ID:       uuid.New(),
			SellerID: sellerID,
			Balance:  decimal.RequireFromString("100.00"),
		},
	}
	svc, _ := NewService(repo, stubTxRunner{})

	err := svc.Debit(context.Background(), &gorm.DB{}, sellerID, decimal.RequireFromString("45.00"), enums.WalletEntryRefTypeOrder, orderID, nil)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !repo.wallet.Balance.Equal(decimal.RequireFromString("55.00")) {
		t.Fatalf("unexpected balance %s", repo.wallet.Balance)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected one entry got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.Type != enums.WalletEntryTypeDebit || !entry.Amount.Equal(decimal.RequireFromString("45.00")) {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.RefType != enums.WalletEntryRefTypeOrder || entry.RefID != orderID {
		t.Fatalf("unexpected entry refs %+v", entry)
	}
}

func TestCreditCreatesWalletOnFirstTouch(t *testing.T) {
	sellerID := uuid.New()
	repo := &stubWalletRepo{}
	svc, _ := NewService(repo, stubTxRunner{})

	err := svc.Credit(context.Background(), &gorm.DB{}, sellerID, decimal.RequireFromString("45.00"), enums.WalletEntryRefTypeOrder, uuid.New(), nil)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.wallet == nil || !repo.wallet.Balance.Equal(decimal.RequireFromString("45.00")) {
		t.Fatalf("unexpected wallet %+v", repo.wallet)
	}
	if len(repo.entries) != 1 || repo.entries[0].Type != enums.WalletEntryTypeCredit {
		t.Fatalf("unexpected entries %+v", repo.entries)
	}
}

func TestTopUpValidation(t *testing.T) {
	repo := &stubWalletRepo{}
	svc, _ := NewService(repo, stubTxRunner{})

	_, err := svc.TopUp(context.Background(), uuid.New(), TopUpInput{Amount: decimal.Zero})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}

	_, err = svc.TopUp(context.Background(), uuid.Nil, TopUpInput{Amount: decimal.RequireFromString("10.00")})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestBalanceMissingWalletReturnsZero(t *testing.T) {
	repo := &stubWalletRepo{}
	svc, _ := NewService(repo, stubTxRunner{})

	wallet, err := svc.Balance(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !wallet.Balance.Equal(decimal.Zero) {
		t.Fatalf("unexpected balance %s", wallet.Balance)
	}
}
