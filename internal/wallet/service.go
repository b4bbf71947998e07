package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printforge/fulfillment-backend/pkg/db/models"
	"github.com/printforge/fulfillment-backend/pkg/enums"
	pkgerrors "github.com/printforge/fulfillment-backend/pkg/errors"
	"github.com/printforge/fulfillment-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines wallet operations for the seller surface plus the tx-scoped
// debit/credit primitives the order flows call.
type Service interface {
	Balance(ctx context.Context, sellerID uuid.UUID) (*models.Wallet, error)
	TopUp(ctx context.Context, sellerID uuid.UUID, input TopUpInput) (*models.Wallet, error)
	ListEntries(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*LedgerList, error)

	// Debit and Credit run inside a caller-owned transaction so the balance
	// change and its ledger entry commit or roll back with the order write.
	Debit(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, amount decimal.Decimal, refType enums.WalletEntryRefType, refID uuid.UUID, note *string) error
	Credit(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, amount decimal.Decimal, refType enums.WalletEntryRefType, refID uuid.UUID, note *string) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a wallet service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Balance(ctx context.Context, sellerID uuid.UUID) (*models.Wallet, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	wallet, err := s.repo.FindWalletBySeller(ctx, sellerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &models.Wallet{SellerID: sellerID, Balance: decimal.Zero}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}
	return wallet, nil
}

func (s *service) TopUp(ctx context.Context, sellerID uuid.UUID, input TopUpInput) (*models.Wallet, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "top-up amount must be positive")
	}

	var wallet *models.Wallet
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.Credit(ctx, tx, sellerID, input.Amount, enums.WalletEntryRefTypeTopUp, uuid.New(), input.Note); err != nil {
			return err
		}
		loaded, err := s.repo.WithTx(tx).FindWalletBySeller(ctx, sellerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload wallet")
		}
		wallet = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (s *service) ListEntries(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*LedgerList, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	list, err := s.repo.ListEntries(ctx, sellerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wallet entries")
	}
	return list, nil
}

// Debit subtracts amount from the seller wallet, guarded so the balance never
// goes negative, and appends a DEBIT ledger entry in the same transaction.
func (s *service) Debit(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, amount decimal.Decimal, refType enums.WalletEntryRefType, refID uuid.UUID, note *string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for wallet debit")
	}
	if !amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "debit amount must be positive")
	}

	repo := s.repo.WithTx(tx)
	wallet, err := repo.FindWalletBySeller(ctx, sellerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeConflict, "insufficient balance")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}

	rows, err := repo.DebitBalance(ctx, sellerID, amount)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit wallet")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "insufficient balance")
	}

	entry := &models.WalletEntry{
		WalletID: wallet.ID,
		SellerID: sellerID,
		Type:     enums.WalletEntryTypeDebit,
		Amount:   amount,
		RefType:  refType,
		RefID:    refID,
		Note:     note,
	}
	if err := repo.AppendEntry(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record wallet debit")
	}
	return nil
}

// Credit adds amount to the seller wallet, creating the wallet row on first
// touch, and appends a CREDIT ledger entry in the same transaction.
func (s *service) Credit(ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, amount decimal.Decimal, refType enums.WalletEntryRefType, refID uuid.UUID, note *string) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for wallet credit")
	}
	if !amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "credit amount must be positive")
	}

	repo := s.repo.WithTx(tx)
	wallet, err := repo.FindWalletBySeller(ctx, sellerID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
		}
		wallet, err = repo.CreateWallet(ctx, &models.Wallet{SellerID: sellerID, Balance: decimal.Zero})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wallet")
		}
	}

	rows, err := repo.CreditBalance(ctx, sellerID, amount)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit wallet")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeDependency, "wallet row missing during credit")
	}

	entry := &models.WalletEntry{
		WalletID: wallet.ID,
		SellerID: sellerID,
		Type:     enums.WalletEntryTypeCredit,
		Amount:   amount,
		RefType:  refType,
		RefID:    refID,
		Note:     note,
	}
	if err := repo.AppendEntry(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record wallet credit")
	}
	return nil
}
