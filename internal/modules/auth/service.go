package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lodging/internal/domain"
)

type tokenIssuer interface {
	GenerateToken(userID, tenantID int64, role string) (string, error)
}

type Service struct {
	users   UserRepository
	tenants TenantRepository
	jwt     tokenIssuer
}

func NewService(users UserRepository, tenants TenantRepository, jwt tokenIssuer) *Service {
	return &Service{users: users, tenants: tenants, jwt: jwt}
}

// Register creates a guest account scoped to the tenant named by slug.
// Staff and admin accounts are provisioned out of band (seed or ops tooling).
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	tenant, err := s.tenants.GetBySlug(ctx, req.TenantSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTenantNotFound
		}
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		TenantID:     tenant.ID,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleGuest,
		Name:         req.Name,
		Phone:        req.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, user.TenantID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.TenantID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
