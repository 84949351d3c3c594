package services

import (
	"context"
	"errors"
	"strings"

	"github.com/vinitha-rv/library-backend/common/auth"
	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/models"
	"github.com/vinitha-rv/library-backend/repository"

	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = bcrypt.DefaultCost

type ITokenService interface {
	GenerateAccessToken(userID, email, username string) (string, error)
}

var _ ITokenService = (*auth.TokenService)(nil)

type AuthService struct {
	userRepo     repository.UserRepo
	tokenService ITokenService
}

func NewAuthService(ur repository.UserRepo, ts ITokenService) *AuthService {
	return &AuthService{userRepo: ur, tokenService: ts}
}

// registration is validated only for presence and email shape.
type registration struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	r := registration{
		Name:     strings.TrimSpace(req.Name),
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}
	if err := validate.Struct(r); err != nil {
		return apperrors.BadRequest("All fields are required.")
	}
	if err := validate.Var(r.Email, "email"); err != nil {
		return apperrors.BadRequest("Invalid email address.")
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, r.Username, r.Email)
	if err != nil {
		return apperrors.Internal("Registration failed", err)
	}
	if exists {
		return apperrors.Conflict("Username or email already exists.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(r.Password), passwordHashCost)
	if err != nil {
		return apperrors.Internal("Registration failed", err)
	}

	user := &models.User{
		Name:     r.Name,
		Username: r.Username,
		Email:    r.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent registration won the unique index
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.Conflict("Username or email already exists.")
		}
		return apperrors.Internal("Registration failed", err)
	}
	return nil
}

// Login verifies credentials. Unknown emails and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	invalid := apperrors.Unauthorized("Invalid email or password.")

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, invalid
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, apperrors.Internal("Login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, invalid
	}

	token, err := s.tokenService.GenerateAccessToken(user.ID.Hex(), user.Email, user.Username)
	if err != nil {
		return nil, apperrors.Internal("Login failed", err)
	}

	return &models.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.Profile(),
	}, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, id string) error {
	oid, ok := parseObjectID(id)
	if !ok {
		return apperrors.BadRequest("Invalid user ID.")
	}
	err := s.userRepo.Delete(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("User not found.")
	}
	if err != nil {
		return apperrors.Internal("Delete failed", err)
	}
	return nil
}
