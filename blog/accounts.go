package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/pubhouse/content"
)

const (
	msgAllFieldsRequired = "All fields are required."
	msgUsernameTaken     = "Username already exists."
	msgEmailTaken        = "Email already exists."
	msgBadCredentials    = "Invalid username/email or password."
)

// SignUpInput is the registration form.
type SignUpInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// ProfileUpdate is the profile form. Empty fields keep the current value;
// a password change needs both password fields.
type ProfileUpdate struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
	Image     *Upload
}

// passwordFields is validated in this order: match first, then length.
type passwordFields struct {
	Password2 string `label:"Passwords" validate:"eqfield=Password1"`
	Password1 string `label:"Password" validate:"min=6"`
}

type emailField struct {
	Email string `label:"Email" validate:"omitempty,email"`
}

// SignUp registers a new account. Every failed check is reported.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*content.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	var msgs []string
	if in.Username == "" || in.Email == "" || in.Password1 == "" || in.Password2 == "" {
		msgs = append(msgs, msgAllFieldsRequired)
	}
	msgs = append(msgs, s.validate.messages(passwordFields{Password1: in.Password1, Password2: in.Password2})...)
	msgs = append(msgs, s.validate.messages(emailField{Email: in.Email})...)

	if in.Username != "" {
		taken, err := s.store.UsernameExists(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			msgs = append(msgs, msgUsernameTaken)
		}
	}
	if in.Email != "" {
		taken, err := s.store.EmailExists(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			msgs = append(msgs, msgEmailTaken)
		}
	}
	if len(msgs) > 0 {
		return nil, Validation(msgs...)
	}

	u, err := s.createUser(ctx, in.Username, in.Email, in.Password1)
	if errors.Is(err, content.ErrAlreadyExists) {
		return nil, Validation("Username or email already exists.")
	}
	if err != nil {
		return nil, err
	}
	s.metrics.signedUp()
	s.logger.InfoContext(ctx, "user signed up", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// CreateUser creates an account without the signup form checks. It fails
// when the username is taken.
func (s *Service) CreateUser(ctx context.Context, username, email, password string) (*content.User, error) {
	taken, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, Validation(fmt.Sprintf("User with username '%s' already exists.", username))
	}
	u, err := s.createUser(ctx, username, email, password)
	if err != nil {
		return nil, fmt.Errorf("creating user '%s': %w", username, err)
	}
	return u, nil
}

func (s *Service) createUser(ctx context.Context, username, email, password string) (*content.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &content.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks a username or email and password pair.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*content.User, error) {
	login = strings.TrimSpace(login)
	u, err := s.store.GetUserByUsername(ctx, login)
	if errors.Is(err, content.ErrNotFound) {
		u, err = s.store.GetUserByEmail(ctx, login)
	}
	if errors.Is(err, content.ErrNotFound) {
		return nil, Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, Unauthorized(msgBadCredentials)
	}
	return u, nil
}

// User returns the account of actor.
func (s *Service) User(ctx context.Context, actor Actor) (*content.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, translate(err, "User not found.")
	}
	return u, nil
}

// UpdateProfile applies in to the account of actor.
func (s *Service) UpdateProfile(ctx context.Context, actor Actor, in ProfileUpdate) (*content.User, error) {
	u, err := s.User(ctx, actor)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	var msgs []string
	if username != "" && username != u.Username {
		taken, err := s.store.UsernameExists(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			msgs = append(msgs, msgUsernameTaken)
		}
		u.Username = username
	}
	if email != "" && email != u.Email {
		if m := s.validate.messages(emailField{Email: email}); len(m) > 0 {
			msgs = append(msgs, m...)
		} else {
			taken, err := s.store.EmailExists(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				msgs = append(msgs, msgEmailTaken)
			}
		}
		u.Email = email
	}
	changePassword := in.Password1 != "" || in.Password2 != ""
	if changePassword {
		if m := s.validate.messages(passwordFields{Password1: in.Password1, Password2: in.Password2}); len(m) > 0 {
			msgs = append(msgs, m[0])
		}
	}
	if len(msgs) > 0 {
		return nil, Validation(msgs...)
	}

	if changePassword {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	media, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	if media != nil {
		u.ImageURL = &media.URL
	}

	if err := s.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, content.ErrAlreadyExists) {
			return nil, Validation("Username or email already exists.")
		}
		return nil, translate(err, "User not found.")
	}
	s.logger.InfoContext(ctx, "profile updated", "user_id", u.ID)
	return u, nil
}
