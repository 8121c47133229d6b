package repository

import (
	"context"
	"encoding/json"

	"spudverse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository records the SPUD journal: one signed entry per
// balance mutation.
type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CreateWithTx appends a journal entry inside an existing transaction, so the
// entry commits or rolls back together with the balance change it describes.
func (r *TransactionRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	var meta []byte
	if t.Meta != nil {
		var err error
		meta, err = json.Marshal(t.Meta)
		if err != nil {
			return err
		}
	}

	return tx.QueryRow(ctx,
		`INSERT INTO transactions (user_id, type, amount, meta)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		t.UserID, t.Type, t.Amount, meta,
	).Scan(&t.ID, &t.CreatedAt)
}

// GetByUserID returns the most recent journal entries for a user.
func (r *TransactionRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, amount, COALESCE(meta, 'null'::jsonb), created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var meta []byte
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &meta, &t.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(meta, &t.Meta)
		res = append(res, &t)
	}
	return res, rows.Err()
}
