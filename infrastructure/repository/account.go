package repository

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vendalytics/sales-sync-api/infrastructure/database/postgres"
	"github.com/vendalytics/sales-sync-api/internal/domain"
)

const accountsTable = "marketplace_accounts"

type AccountRepository interface {
	GetByID(accountID string) (*domain.Account, error)
	ListByUser(userID int) ([]*domain.Account, error)
	ListByIDs(accountIDs []string) ([]*domain.Account, error)
	ListActive() ([]*domain.Account, error)
	UpdateTokens(account *domain.Account) error
	MarkInvalid(accountID string, since time.Time) error
	ClearInvalid(accountID string) error
}

type accountRepository struct {
	conn *postgres.Connection
}

func NewAccountRepository(conn *postgres.Connection) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

const accountColumns = "id, user_id, platform, external_seller_id, nickname, access_token, refresh_token, token_expires_at, invalid_since, created_at"

func (r *accountRepository) GetByID(accountID string) (*domain.Account, error) {
	accounts, err := r.list(squirrel.Eq{"id": accountID})
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return accounts[0], nil
}

func (r *accountRepository) ListByUser(userID int) ([]*domain.Account, error) {
	return r.list(squirrel.Eq{"user_id": userID})
}

func (r *accountRepository) ListByIDs(accountIDs []string) ([]*domain.Account, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	return r.list(squirrel.Eq{"id": accountIDs})
}

// ListActive lista as contas sem marcador de reconexão, de todos os
// usuários. Usada pelo agendador noturno.
func (r *accountRepository) ListActive() ([]*domain.Account, error) {
	return r.list(squirrel.Eq{"invalid_since": nil})
}

func (r *accountRepository) list(where squirrel.Sqlizer) ([]*domain.Account, error) {
	querySQL, args, err := squirrel.
		Select(accountColumns).
		From(accountsTable).
		Where(where).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(querySQL, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account := &domain.Account{}
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Platform,
			&account.ExternalSellerID,
			&account.Nickname,
			&account.AccessToken,
			&account.RefreshToken,
			&account.TokenExpiresAt,
			&account.InvalidSince,
			&account.CreatedAt,
		); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateTokens persiste o par de tokens renovado. Deve ser chamado logo
// após o refresh: o marketplace invalida o refresh token antigo.
func (r *accountRepository) UpdateTokens(account *domain.Account) error {
	updateSQL, args, err := squirrel.
		Update(accountsTable).
		Set("access_token", account.AccessToken).
		Set("refresh_token", account.RefreshToken).
		Set("token_expires_at", account.TokenExpiresAt).
		Where(squirrel.Eq{"id": account.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(updateSQL, args...)
	return err
}

func (r *accountRepository) MarkInvalid(accountID string, since time.Time) error {
	updateSQL, args, err := squirrel.
		Update(accountsTable).
		Set("invalid_since", since).
		Where(squirrel.Eq{"id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(updateSQL, args...)
	return err
}

func (r *accountRepository) ClearInvalid(accountID string) error {
	updateSQL, args, err := squirrel.
		Update(accountsTable).
		Set("invalid_since", nil).
		Where(squirrel.Eq{"id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(updateSQL, args...)
	return err
}
