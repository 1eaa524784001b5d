package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/config"
	pkgjwt "github.com/jhoicas/Almacen-api/pkg/jwt"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Username]; ok {
		return domain.ErrDuplicate
	}
	cp := *user
	f.users[user.Username] = &cp
	return nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

var testJWT = config.JWTConfig{
	Secret:     "test-secret",
	Expiration: 60,
	Issuer:     "almacen-api-test",
}

func TestRegisterYLogin_FlujoCompleto(t *testing.T) {
	uc := auth.NewUseCase(newFakeUserRepo(), testJWT)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, dto.RegisterRequest{
		Username: "ana",
		Password: "secreta1",
		Role:     entity.RoleAdmin,
	}))

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "secreta1"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)

	_, role, err := pkgjwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role, "el token lleva el rol en sus claims")
}

func TestRegister_RolPorDefectoEsViewer(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewUseCase(repo, testJWT)

	require.NoError(t, uc.Register(context.Background(), dto.RegisterRequest{
		Username: "luis",
		Password: "secreta1",
	}))

	u, err := repo.FindByUsername(context.Background(), "luis")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleViewer, u.Role)
	assert.NotEqual(t, "secreta1", u.PasswordHash, "la contraseña jamás se guarda en claro")
}

func TestRegister_Validacion(t *testing.T) {
	uc := auth.NewUseCase(newFakeUserRepo(), testJWT)
	ctx := context.Background()

	assert.ErrorIs(t, uc.Register(ctx, dto.RegisterRequest{Password: "secreta1"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Register(ctx, dto.RegisterRequest{Username: "ana", Password: "corta"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Register(ctx, dto.RegisterRequest{Username: "ana", Password: "secreta1", Role: "superuser"}), domain.ErrInvalidInput)
}

func TestRegister_UsernameDuplicado(t *testing.T) {
	uc := auth.NewUseCase(newFakeUserRepo(), testJWT)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, dto.RegisterRequest{Username: "ana", Password: "secreta1"}))
	assert.ErrorIs(t, uc.Register(ctx, dto.RegisterRequest{Username: "ana", Password: "otraclave"}), domain.ErrDuplicate)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := auth.NewUseCase(newFakeUserRepo(), testJWT)
	ctx := context.Background()

	require.NoError(t, uc.Register(ctx, dto.RegisterRequest{Username: "ana", Password: "secreta1"}))

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
