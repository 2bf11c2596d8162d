package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles
const (
	RolePrincipal Role = "principal"
	RoleHOD       Role = "hod"
)

var (
	AllRoles = []Role{RolePrincipal, RoleHOD}

	Roles = []RoleInfo{
		{Name: "Principal", Value: RolePrincipal},
		{Name: "Head of Department", Value: RoleHOD},
	}
)

type Role string

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type RoleInfo struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	Department   string    `json:"department,omitempty"` // HODs only
	PasswordHash []byte    `json:"-"`
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// HasRole reports whether the user holds any of `roles`. No roles means any role.
func (u *User) HasRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

func (u *User) IsPrincipal() bool { return u.Role == RolePrincipal }
func (u *User) IsHOD() bool       { return u.Role == RoleHOD }
