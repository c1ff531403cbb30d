package services

import (
	"context"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/planbill/planbill/internal/domain/team"
	"github.com/planbill/planbill/internal/domain/user"
	"github.com/planbill/planbill/internal/pkg/errors"
	"github.com/planbill/planbill/internal/pkg/logger"
)

// uniqueViolation is the postgres error code for unique constraint
// violations
const uniqueViolation = "23505"

// UserService implements user.Service
type UserService struct {
	repo       user.Repository
	bcryptCost int
	logger     *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, bcryptCost int, log *logger.Logger) user.Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Register creates a new user with a hashed password and their
// personal team.
func (s *UserService) Register(ctx context.Context, email, password, name, locale string, timezone *string) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}
	hashStr := string(hash)

	if locale == "" {
		locale = user.DefaultLocale
	}

	u := &user.User{
		Email:        email,
		Name:         name,
		PasswordHash: &hashStr,
		Locale:       locale,
		Timezone:     timezone,
	}

	// Every user owns exactly one personal team; the repository
	// creates both rows in one transaction.
	personal := &team.Team{
		Name:       name,
		IsPersonal: true,
	}
	if err := s.repo.CreateWithPersonalTeam(ctx, u, personal); err != nil {
		if pqErr, ok := errAsPq(err); ok && pqErr.Code == uniqueViolation {
			return nil, errors.Conflict("Email already registered")
		}
		s.logger.ErrorWithErr(err, "Failed to register user")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"team_id": personal.ID,
		"email":   u.Email,
	}).Info("User registered")

	return u, nil
}

// Authenticate verifies email/password credentials
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Unauthorized("Invalid credentials")
	}
	if u.PasswordHash == nil {
		return nil, errors.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid credentials")
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// IsAdmin reports whether the user holds administrator privileges.
// A missing user is "not admin", never an error; lookup failures are
// logged and also answer false.
func (s *UserService) IsAdmin(ctx context.Context, userID int64) bool {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.ErrorWithErr(err, "Admin check lookup failed")
		}
		return false
	}
	return u.IsAdmin
}

func errAsPq(err error) (*pq.Error, bool) {
	for err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return pqErr, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
