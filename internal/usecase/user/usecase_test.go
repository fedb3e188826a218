package user

import (
	"context"
	"testing"

	"contrack-backend/internal/adapter/repository/mysql"
	"contrack-backend/internal/domain/apperr"
	userDomain "contrack-backend/internal/domain/user"
	"contrack-backend/internal/testutil/dbtest"
	"contrack-backend/internal/usecase/intake"
	"contrack-backend/pkg/id"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *Usecase {
	t.Helper()
	return NewUsecase(mysql.NewUserRepository(dbtest.Open(t)), nil, zerolog.Nop())
}

func TestRegister(t *testing.T) {
	uc := setup(t)
	ctx := context.Background()

	u, err := uc.Register(ctx, intake.UserRequest{Email: " Buyer@Example.com ", Name: "Buyer Co", Role: "client"})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", u.Email)
	assert.Equal(t, userDomain.RoleClient, u.Role)
	assert.True(t, id.Valid(u.UserID))

	got, err := uc.Get(ctx, u.UserID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = uc.Register(ctx, intake.UserRequest{Email: "BUYER@example.com", Role: "VENDOR"})
	assert.ErrorIs(t, err, userDomain.ErrEmailInUse)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestRegister_Invalid(t *testing.T) {
	uc := setup(t)
	_, err := uc.Register(context.Background(), intake.UserRequest{Email: "nope", Name: "x", Role: "PIRATE"})
	require.Error(t, err)
	assert.Len(t, apperr.FieldsOf(err), 3)
}

func TestGet_NotFound(t *testing.T) {
	uc := setup(t)
	_, err := uc.Get(context.Background(), id.NewID32())
	assert.ErrorIs(t, err, userDomain.ErrNotFound)
}
