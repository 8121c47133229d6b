package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"spudverse/internal/domain"
	"spudverse/internal/repository"
)

// LedgerService applies balance mutations inside a caller-owned transaction
// and records a journal entry for each one.
type LedgerService struct {
	transactions *repository.TransactionRepository
}

func NewLedgerService(transactions *repository.TransactionRepository) *LedgerService {
	return &LedgerService{transactions: transactions}
}

// CreditWithTx adds amount to the account balance and journals it.
// Returns the new balance.
func (s *LedgerService) CreditWithTx(ctx context.Context, tx pgx.Tx, userID, amount int64, txType string, meta map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := tx.QueryRow(ctx,
		`UPDATE accounts SET balance = balance + $1 WHERE user_id = $2 RETURNING balance`,
		amount, userID,
	).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	entry := &domain.Transaction{UserID: userID, Type: txType, Amount: amount, Meta: meta}
	if err := s.transactions.CreateWithTx(ctx, tx, entry); err != nil {
		return 0, err
	}
	return balance, nil
}

// DebitWithTx subtracts amount from the account balance, refusing to go
// negative, and journals the spend with a negative amount.
func (s *LedgerService) DebitWithTx(ctx context.Context, tx pgx.Tx, userID, amount int64, txType string, meta map[string]any) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := tx.QueryRow(ctx,
		`UPDATE accounts SET balance = balance - $1 WHERE user_id = $2 AND balance >= $1 RETURNING balance`,
		amount, userID,
	).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			var exists bool
			if qerr := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM accounts WHERE user_id = $1)`, userID,
			).Scan(&exists); qerr != nil {
				return 0, qerr
			}
			if !exists {
				return 0, ErrUserNotFound
			}
			return 0, ErrInsufficientBalance
		}
		return 0, err
	}

	entry := &domain.Transaction{UserID: userID, Type: txType, Amount: -amount, Meta: meta}
	if err := s.transactions.CreateWithTx(ctx, tx, entry); err != nil {
		return 0, err
	}
	return balance, nil
}
