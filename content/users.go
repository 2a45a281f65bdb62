package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const userColumns = "id, username, email, password_hash, image_url, created_at"

type userRow struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	ImageURL     sql.NullString `db:"image_url"`
	CreatedAt    string         `db:"created_at"`
}

func (r userRow) user() *User {
	u := &User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    mustParseTime(r.CreatedAt),
	}
	if r.ImageURL.Valid && r.ImageURL.String != "" {
		img := r.ImageURL.String
		u.ImageURL = &img
	}
	return u
}

// CreateUser inserts u and sets its ID and CreatedAt.
// Returns ErrAlreadyExists when the username or email is taken.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	res, err := s.exec(ctx, s.sb.Insert("users").
		Columns("username", "email", "password_hash", "image_url", "created_at").
		Values(u.Username, u.Email, u.PasswordHash, nullString(u.ImageURL), formatTime(u.CreatedAt)))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	return err
}

// UpdateUser writes the mutable fields of u.
// Returns ErrAlreadyExists when the new username or email is taken.
func (s *Store) UpdateUser(ctx context.Context, u *User) error {
	res, err := s.exec(ctx, s.sb.Update("users").
		Set("username", u.Username).
		Set("email", u.Email).
		Set("password_hash", u.PasswordHash).
		Set("image_url", nullString(u.ImageURL)).
		Where(sq.Eq{"id": u.ID}))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUser returns the user with the given id.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.getUserWhere(ctx, sq.Eq{"id": id})
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.getUserWhere(ctx, sq.Eq{"username": username})
}

// GetUserByEmail returns the user with the given email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUserWhere(ctx, sq.Eq{"email": email})
}

func (s *Store) getUserWhere(ctx context.Context, pred sq.Eq) (*User, error) {
	var row userRow
	if err := s.get(ctx, &row, s.sb.Select(userColumns).From("users").Where(pred)); err != nil {
		return nil, err
	}
	return row.user(), nil
}

// UsernameExists reports whether any user has the given username.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := s.count(ctx, s.sb.Select("COUNT(*)").From("users").Where(sq.Eq{"username": username}))
	return n > 0, err
}

// EmailExists reports whether any user has the given email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.count(ctx, s.sb.Select("COUNT(*)").From("users").Where(sq.Eq{"email": email}))
	return n > 0, err
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, s.sb.Select("COUNT(*)").From("users"))
}

// FeaturedAuthor returns the username with the most posts.
// Ties go to the user who registered first. ok is false when no posts exist.
func (s *Store) FeaturedAuthor(ctx context.Context) (username string, ok bool, err error) {
	err = s.get(ctx, &username, s.sb.Select("u.username").
		From("posts p").
		Join("users u ON u.id = p.author_id").
		GroupBy("u.id").
		OrderBy("COUNT(p.id) DESC", "u.id ASC").
		Limit(1))
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return username, true, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
