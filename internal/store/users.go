package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"goalgrid/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// UserStore is the credential store. Passwords are bcrypt-hashed before they
// reach the database and are never returned in clear text.
type UserStore struct {
	db   *sql.DB
	cost int
}

// NewUserStore returns a UserStore hashing with the given bcrypt cost.
// A cost outside bcrypt's accepted range falls back to bcrypt.DefaultCost.
func NewUserStore(s *Store, cost int) *UserStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &UserStore{db: s.db, cost: cost}
}

func (u *UserStore) Create(ctx context.Context, username, password string) (*models.User, error) {
	hashed, err := u.hash(password)
	if err != nil {
		return nil, err
	}

	row := u.db.QueryRowContext(ctx, `INSERT INTO
			"user"(username, password_hash, description)
			VALUES($1, $2, '')
			RETURNING id`,
		username, string(hashed))

	user := &models.User{Username: username, PasswordHash: string(hashed)}
	err = row.Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (u *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	row := u.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, description
		FROM "user"
		WHERE username = $1`, username)
	return scanUser(row)
}

func (u *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	row := u.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, description
		FROM "user"
		WHERE id = $1`, id)
	return scanUser(row)
}

// UpdateUsername renames a user. Renaming to the current name succeeds
// without touching the database.
func (u *UserStore) UpdateUsername(ctx context.Context, userID int64, username string) error {
	current, err := u.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if current.Username == username {
		return nil
	}

	result, err := u.db.ExecContext(ctx, `UPDATE "user" SET username = $1 WHERE id = $2`, username, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("update username: %w", err)
	}

	return expectRow(result)
}

// UpdateProfile sets username and description in one statement, so a
// rejected username leaves the description untouched too.
func (u *UserStore) UpdateProfile(ctx context.Context, userID int64, username, description string) error {
	result, err := u.db.ExecContext(ctx,
		`UPDATE "user"
			SET username = $1, description = $2
			WHERE id = $3`,
		username, description, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("update profile: %w", err)
	}

	return expectRow(result)
}

func (u *UserStore) UpdateDescription(ctx context.Context, userID int64, description string) error {
	result, err := u.db.ExecContext(ctx, `UPDATE "user" SET description = $1 WHERE id = $2`, description, userID)
	if err != nil {
		return fmt.Errorf("update description: %w", err)
	}

	return expectRow(result)
}

func (u *UserStore) ResetPassword(ctx context.Context, username, password string) error {
	hashed, err := u.hash(password)
	if err != nil {
		return err
	}

	result, err := u.db.ExecContext(ctx, `UPDATE "user" SET password_hash = $1 WHERE username = $2`, string(hashed), username)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	return expectRow(result)
}

// VerifyPassword reports whether password matches the user's stored hash.
func (u *UserStore) VerifyPassword(user *models.User, password string) bool {
	if user == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (u *UserStore) hash(password string) ([]byte, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hashed, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

func expectRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
