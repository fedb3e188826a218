package user

import (
	"context"
	"errors"

	"contrack-backend/internal/domain/apperr"
	userDomain "contrack-backend/internal/domain/user"
	"contrack-backend/internal/usecase/intake"
	"contrack-backend/pkg/id"

	"github.com/rs/zerolog"
)

type Usecase struct {
	users    userDomain.Repository
	validate *intake.Validator
	log      zerolog.Logger
}

func NewUsecase(users userDomain.Repository, v *intake.Validator, log zerolog.Logger) *Usecase {
	if v == nil {
		v = intake.New()
	}
	return &Usecase{users: users, validate: v, log: log}
}

// Register creates a user. Emails are unique after lower-casing.
func (u *Usecase) Register(ctx context.Context, req intake.UserRequest) (*userDomain.User, error) {
	const op = "user.Register"
	req, err := u.validate.User(req)
	if err != nil {
		return nil, err
	}
	_, err = u.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, apperr.Wrap(op, userDomain.ErrEmailInUse)
	case !errors.Is(err, userDomain.ErrNotFound):
		return nil, apperr.Wrap(op, err)
	}

	out := &userDomain.User{
		UserID: id.NewID32(),
		Email:  req.Email,
		Name:   req.Name,
		Role:   userDomain.Role(req.Role),
	}
	if err := u.users.Create(ctx, out); err != nil {
		return nil, apperr.Wrap(op, err)
	}
	u.log.Info().Str("op", op).Str("user_id", out.UserID).Str("role", string(out.Role)).Msg("user registered")
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, userID string) (*userDomain.User, error) {
	out, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap("user.Get", err)
	}
	return out, nil
}
