package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/abkawan/bankbook/internal/ledger"
	"github.com/abkawan/bankbook/internal/models"
)

// UserService handles registration and authentication.
type UserService struct {
	store    *ledger.Store
	validate *validator.Validate
	log      *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store *ledger.Store, log *slog.Logger) *UserService {
	return &UserService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// Register creates a user with a bcrypt-hashed password. Emails are
// unique: the authentication index is keyed by email, so a duplicate
// would make login ambiguous.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, ledger.ErrInvalidEmail
	}
	if name == "" || password == "" {
		return nil, fmt.Errorf("name and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now().UTC(),
	}

	err = s.store.Update(ctx, func(tx *ledger.Tx) error {
		if tx.EmailTaken(email) {
			return ledger.ErrEmailTaken
		}
		tx.AddUser(user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)
	return user.Clone(), nil
}

// Authenticate looks the user up by email and compares passwords. Unknown
// emails and wrong passwords fail identically.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.UserByEmail(email)
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			return nil, ledger.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ledger.ErrInvalidCredentials
	}
	return user, nil
}
