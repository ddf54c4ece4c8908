package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/greenbay-io/greenbay/internal/shared/db"
	"github.com/greenbay-io/greenbay/internal/shared/storage"
	"github.com/greenbay-io/greenbay/internal/user/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository for PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.get(ctx, `SELECT id, username, balance, created_at FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.get(ctx, `SELECT id, username, balance, created_at FROM users WHERE username = $1`, username)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Balance,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
        INSERT INTO users (id, username, balance, created_at)
        VALUES ($1, $2, $3, $4)
    `
	_, err := r.pool.Exec(ctx, query, user.ID, user.Username, user.Balance, user.CreatedAt)
	return err
}

// Debit is a conditional decrement: the WHERE clause re-checks
// sufficiency under the transaction's row lock, so two winning
// purchases racing for the same balance cannot overdraw it.
func (r *UserRepository) Debit(ctx context.Context, tx storage.Tx, userID uuid.UUID, amount int) error {
	pgtx, err := db.Unwrap(tx)
	if err != nil {
		return err
	}
	tag, err := pgtx.Exec(ctx,
		`UPDATE users SET balance = balance - $2 WHERE id = $1 AND balance >= $2`,
		userID, amount,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func (r *UserRepository) UpdateBalance(ctx context.Context, username string, balance float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET balance = $2 WHERE username = $1`,
		username, balance,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
