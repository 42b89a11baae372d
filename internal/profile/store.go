// Package profile persists Telegram user profiles.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dobryakk5/nsk/core/logger"
)

const component = "service.profiles"

// ErrNotFound is returned when no profile exists for the user.
var ErrNotFound = errors.New("profile: not found")

// Store reads and writes the users table. Every call checks out its own
// connection from the pool and returns it before the call ends.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore wraps db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) conn(ctx context.Context) (*sqlx.Conn, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

// UpsertOnFirstContact creates the profile unless one exists. An existing
// row is left untouched; created reports whether a row was inserted.
func (s *Store) UpsertOnFirstContact(ctx context.Context, c Contact) (created bool, err error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	var username *string
	if u := strings.TrimSpace(c.Username); u != "" {
		username = &u
	}
	res, err := conn.ExecContext(ctx, conn.Rebind(`
		INSERT INTO users (tg_user_id, username, first_name, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (tg_user_id) DO NOTHING`),
		c.UserID, username, c.FirstName, RoleOrdinary, s.now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("upsert profile %d: %w", c.UserID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upsert profile %d: rows affected: %w", c.UserID, err)
	}
	return n > 0, nil
}

// SetRegistrationNumber overwrites the user's registration number. It never
// creates a row and returns ErrNotFound when the profile is missing.
func (s *Store) SetRegistrationNumber(ctx context.Context, userID, number int64) error {
	conn, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, conn.Rebind(`UPDATE users SET reg_number = ? WHERE tg_user_id = ?`), number, userID)
	if err != nil {
		return fmt.Errorf("set registration number for %d: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set registration number for %d: rows affected: %w", userID, err)
	}
	if n == 0 {
		return fmt.Errorf("set registration number for %d: %w", userID, ErrNotFound)
	}
	return nil
}

// Get loads one profile.
func (s *Store) Get(ctx context.Context, userID int64) (Profile, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return Profile{}, err
	}
	defer conn.Close()

	var p Profile
	err = conn.GetContext(ctx, &p, conn.Rebind(`
		SELECT tg_user_id, username, first_name, reg_number, role, created_at
		FROM users WHERE tg_user_id = ?`), userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Profile{}, ErrNotFound
	case err != nil:
		return Profile{}, fmt.Errorf("get profile %d: %w", userID, err)
	}
	return p, nil
}

// ListAll returns users with a username, newest first.
func (s *Store) ListAll(ctx context.Context) ([]Listing, error) {
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var out []Listing
	err = conn.SelectContext(ctx, &out, `
		SELECT username, reg_number FROM users
		WHERE username IS NOT NULL AND username <> ''
		ORDER BY created_at DESC, tg_user_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

// IsAdmin reports whether the user is an admin. Any lookup failure yields false.
func (s *Store) IsAdmin(ctx context.Context, userID int64) bool {
	p, err := s.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn(ctx, component, "profile.is_admin",
				slog.String("status", "fail"),
				slog.Int64("user_id", userID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
		return false
	}
	return p.IsAdmin()
}

// PromoteAdmins grants the admin role to existing profiles among ids and
// returns how many rows changed.
func (s *Store) PromoteAdmins(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`UPDATE users SET role = ? WHERE tg_user_id IN (?) AND role <> ?`, RoleAdmin, ids, RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("promote admins: %w", err)
	}

	conn, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, conn.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("promote admins: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("promote admins: rows affected: %w", err)
	}
	return n, nil
}
