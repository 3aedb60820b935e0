// Copyright (c) 2026 Lawha. All rights reserved.

package account

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lawhahq/lawha/internal/platform/dberr"
	"github.com/lawhahq/lawha/internal/users/auth"
)

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

const userColumns = `id, username, email, passwordhash, displayname, COALESCE(avatarurl, ''), COALESCE(bio, ''), role, status, isverified, createdat, updatedat`

func scanUser(row interface{ Scan(...any) error }) (*auth.User, error) {
	user := &auth.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Bio,
		&user.Role,
		&user.Status,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users.account WHERE id = $1 AND deletedat IS NULL`, userColumns)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "account_find_by_id")
	}
	return user, nil
}

func (repository *PostgresAccountRepository) List(context context.Context, filter UserFilter, limit, offset int) ([]*auth.User, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM users.account WHERE deletedat IS NULL`, userColumns)
	countQuery := `SELECT count(*) FROM users.account WHERE deletedat IS NULL`

	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		clause := fmt.Sprintf(" AND (username ILIKE $%d OR email ILIKE $%d OR displayname ILIKE $%d)", len(args), len(args), len(args))
		query += clause
		countQuery += clause
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		clause := fmt.Sprintf(" AND role = $%d", len(args))
		query += clause
		countQuery += clause
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clause := fmt.Sprintf(" AND status = $%d", len(args))
		query += clause
		countQuery += clause
	}

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "account_count")
	}

	query += fmt.Sprintf(" ORDER BY createdat DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "account_list")
	}
	defer rows.Close()

	var users []*auth.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "account_scan")
		}
		users = append(users, user)
	}

	return users, total, nil
}

func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET displayname = $2, avatarurl = $3, bio = $4, updatedat = $5
		WHERE id = $1 AND deletedat IS NULL`

	user.UpdatedAt = time.Now()
	cmd, err := repository.pool.Exec(context, query, user.ID, user.DisplayName, user.AvatarURL, user.Bio, user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "account_update")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresAccountRepository) SetRole(context context.Context, id string, role string) error {
	const query = `UPDATE users.account SET role = $2, updatedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.pool.Exec(context, query, id, role)
	if err != nil {
		return dberr.Wrap(err, "account_set_role")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresAccountRepository) SetStatus(context context.Context, id string, status auth.AccountStatus) error {
	const query = `UPDATE users.account SET status = $2, updatedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.pool.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "account_set_status")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresAccountRepository) MarkVerified(context context.Context, id string) error {
	const query = `UPDATE users.account SET isverified = TRUE, updatedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "account_mark_verified")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	const query = `UPDATE users.account SET deletedat = NOW() WHERE id = $1 AND deletedat IS NULL`

	cmd, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "account_soft_delete")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Session Repository

// PostgresSessionRepository implements [SessionRepository] over users.session.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

func (repository *PostgresSessionRepository) FindActiveByUserID(context context.Context, userID string) ([]SessionInfo, error) {
	const query = `
		SELECT id, useragent, ipaddress, createdat, expiresat
		FROM users.session
		WHERE userid = $1 AND isrevoked = FALSE AND expiresat > NOW()
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "session_list_active")
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.UserAgent, &info.IPAddress, &info.CreatedAt, &info.ExpiresAt); err != nil {
			return nil, dberr.Wrap(err, "session_scan")
		}
		sessions = append(sessions, info)
	}

	return sessions, nil
}

func (repository *PostgresSessionRepository) Revoke(context context.Context, userID, sessionID string) error {
	const query = `UPDATE users.session SET isrevoked = TRUE WHERE id = $1 AND userid = $2`

	cmd, err := repository.pool.Exec(context, query, sessionID, userID)
	if err != nil {
		return dberr.Wrap(err, "session_revoke")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	const query = `UPDATE users.session SET isrevoked = TRUE WHERE userid = $1 AND isrevoked = FALSE`

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return dberr.Wrap(err, "session_revoke_all")
	}
	return nil
}
