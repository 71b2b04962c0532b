package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/room-reservation/internal/domain"
)

const accountColumns = `id, name, email, phone, password_hash, role, approved, created_at`

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	// Create inserts the account; a taken email yields domain.ErrDuplicateEmail.
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Approve sets approved=true on every listed account and returns how many exist.
	Approve(ctx context.Context, ids []string) (int, error)
	ListPending(ctx context.Context, limit int) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

type accountRepository struct {
	db DBTX
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (name, email, phone, password_hash, role, approved)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	account.Email = NormalizeEmail(account.Email)
	err := r.db.QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.Role,
		account.Approved,
	).Scan(&account.ID, &account.CreatedAt)
	if isUniqueViolation(err, "accounts_email_key") {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if !wellFormedID(id) {
		return nil, pgx.ErrNoRows
	}
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE email=$1`
	return scanAccount(r.db.QueryRow(ctx, query, NormalizeEmail(email)))
}

func (r *accountRepository) Approve(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `UPDATE accounts SET approved = TRUE WHERE id = ANY($1::uuid[])`
	cmd, err := r.db.Exec(ctx, query, ids)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}

func (r *accountRepository) ListPending(ctx context.Context, limit int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE approved = FALSE ORDER BY created_at ASC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *account)
	}
	return result, rows.Err()
}

func (r *accountRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n)
	return n, err
}

func (r *accountRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE approved = FALSE`).Scan(&n)
	return n, err
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.Phone,
		&account.PasswordHash,
		&account.Role,
		&account.Approved,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
