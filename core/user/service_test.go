package user_test

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
	inmemdb "github.com/trezcool/academia/storage/database/inmem"
)

const seedsYAML = `
users:
  - id: "1"
    username: Principal
    name: Dr. Meera Nair
    role: principal
    password: principal123
  - id: "2"
    username: hod
    name: Dr. Rajesh Kumar
    role: hod
    department: Computer Science
    password: hod123
`

func newValidate() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newService(t *testing.T) user.Service {
	users, err := user.LoadSeeds(strings.NewReader(seedsYAML), newValidate())
	require.NoError(t, err)
	db := inmemdb.NewDB()
	db.LoadUsers(users...)
	return user.NewService(inmemdb.NewUserRepository(db))
}

func TestLoadSeeds(t *testing.T) {
	users, err := user.LoadSeeds(strings.NewReader(seedsYAML), newValidate())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "principal", users[0].Username, "usernames are lowered")
	assert.Equal(t, user.RolePrincipal, users[0].Role)
	assert.NoError(t, users[0].CheckPassword("principal123"))
	assert.Equal(t, "Computer Science", users[1].Department)

	tests := []struct {
		name string
		yaml string
	}{
		{name: "invalid role", yaml: `users: [{id: "1", username: x, name: X, role: teacher, password: p}]`},
		{name: "hod without department", yaml: `users: [{id: "1", username: x, name: X, role: hod, password: p}]`},
		{name: "blank name", yaml: `users: [{id: "1", username: x, name: "  ", role: principal, password: p}]`},
		{name: "no password", yaml: `users: [{id: "1", username: x, name: X, role: principal}]`},
		{name: "duplicate username", yaml: `users: [{id: "1", username: x, name: X, role: principal, password: p}, {id: "2", username: X, name: Y, role: principal, password: p}]`},
		{name: "malformed", yaml: `users: {`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := user.LoadSeeds(strings.NewReader(tc.yaml), newValidate())
			assert.Error(t, err)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
		wantRole user.Role
	}{
		{name: "principal", username: "principal", password: "principal123", wantRole: user.RolePrincipal},
		{name: "hod, username is case insensitive", username: " HOD ", password: "hod123", wantRole: user.RoleHOD},
		{name: "wrong password", username: "hod", password: "principal123", wantErr: user.ErrInvalidCredentials},
		{name: "unknown user", username: "nobody", password: "hod123", wantErr: user.ErrInvalidCredentials},
		{name: "password is case sensitive", username: "hod", password: "HOD123", wantErr: user.ErrInvalidCredentials},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tc.username, tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantRole, usr.Role)
			assert.False(t, usr.LastLogin.IsZero(), "last login is recorded")
		})
	}
}

func TestService_GetByID(t *testing.T) {
	svc := newService(t)

	usr, err := svc.GetByID(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "hod", usr.Username)

	_, err = svc.GetByID(context.Background(), "99")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUser_HasRole(t *testing.T) {
	usr := user.User{Role: user.RoleHOD}
	assert.True(t, usr.HasRole())
	assert.True(t, usr.HasRole(user.RolePrincipal, user.RoleHOD))
	assert.False(t, usr.HasRole(user.RolePrincipal))
	assert.True(t, usr.IsHOD())
	assert.False(t, usr.IsPrincipal())
}
