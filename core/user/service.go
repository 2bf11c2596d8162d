package user

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/academia/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type (
	Repository interface {
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		SetLastLogin(ctx context.Context, id string, at time.Time) (User, error)
	}

	Service interface {
		// Authenticate checks the credentials against the static user list.
		// Unknown usernames and wrong passwords both fail with ErrInvalidCredentials.
		Authenticate(ctx context.Context, uname, pwd string) (User, error)
		QueryAll(ctx context.Context) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByUsername(ctx context.Context, uname string) (User, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Authenticate(ctx context.Context, uname, pwd string) (User, error) {
	usr, err := svc.GetByUsername(ctx, uname)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return svc.repo.SetLastLogin(ctx, usr.ID, time.Now().UTC())
}

func (svc *service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(uname, true /* lower */))
}
