package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lodging/internal/domain"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	u.ID = 1
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockTenantRepo struct{ mock.Mock }

func (m *mockTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

type mockIssuer struct{ mock.Mock }

func (m *mockIssuer) GenerateToken(userID, tenantID int64, role string) (string, error) {
	args := m.Called(userID, tenantID, role)
	return args.String(0), args.Error(1)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_Success(t *testing.T) {
	users := new(mockUserRepo)
	issuer := new(mockIssuer)
	svc := NewService(users, new(mockTenantRepo), issuer)

	users.On("GetByEmail", mock.Anything, "guest@example.com").Return(&domain.User{
		ID:           7,
		TenantID:     3,
		Email:        "guest@example.com",
		PasswordHash: hashOf(t, "correct horse"),
		Role:         domain.RoleGuest,
	}, nil)
	issuer.On("GenerateToken", int64(7), int64(3), "guest").Return("tok", nil)

	user, token, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Guest@Example.com ",
		Password: "correct horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, int64(3), user.TenantID)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockTenantRepo), new(mockIssuer))

	users.On("GetByEmail", mock.Anything, "guest@example.com").Return(&domain.User{
		PasswordHash: hashOf(t, "correct horse"),
	}, nil)

	_, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "guest@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockTenantRepo), new(mockIssuer))

	users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "anything",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_ScopesUserToTenant(t *testing.T) {
	users := new(mockUserRepo)
	tenants := new(mockTenantRepo)
	issuer := new(mockIssuer)
	svc := NewService(users, tenants, issuer)

	tenants.On("GetBySlug", mock.Anything, "karoo-lodge").Return(&domain.Tenant{ID: 3, Slug: "karoo-lodge"}, nil)
	users.On("GetByEmail", mock.Anything, "guest@example.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.TenantID == 3 && u.Role == domain.RoleGuest && u.PasswordHash != "secret-pass"
	})).Return(nil)
	issuer.On("GenerateToken", int64(1), int64(3), "guest").Return("tok", nil)

	user, token, err := svc.Register(context.Background(), RegisterRequest{
		TenantSlug: "karoo-lodge",
		Email:      "guest@example.com",
		Password:   "secret-pass",
		Name:       "Thandi",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, domain.RoleGuest, user.Role)
	users.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	users := new(mockUserRepo)
	tenants := new(mockTenantRepo)
	svc := NewService(users, tenants, new(mockIssuer))

	tenants.On("GetBySlug", mock.Anything, "karoo-lodge").Return(&domain.Tenant{ID: 3}, nil)
	users.On("GetByEmail", mock.Anything, "guest@example.com").Return(&domain.User{ID: 9}, nil)

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		TenantSlug: "karoo-lodge",
		Email:      "guest@example.com",
		Password:   "secret-pass",
		Name:       "Thandi",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_UnknownTenant(t *testing.T) {
	tenants := new(mockTenantRepo)
	svc := NewService(new(mockUserRepo), tenants, new(mockIssuer))

	tenants.On("GetBySlug", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		TenantSlug: "ghost",
		Email:      "guest@example.com",
		Password:   "secret-pass",
		Name:       "Thandi",
	})

	assert.ErrorIs(t, err, ErrTenantNotFound)
}
