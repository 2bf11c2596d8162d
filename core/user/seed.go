package user

import (
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/academia/core"
)

// Seed is one entry of the static credential list.
// PasswordHash is a bcrypt hash; Password (plaintext) is only meant for development seeds.
type Seed struct {
	ID           string `yaml:"id" json:"id" validate:"required"`
	Username     string `yaml:"username" json:"username" validate:"required,alphanum_"`
	Name         string `yaml:"name" json:"name" validate:"notblank"`
	Role         Role   `yaml:"role" json:"role" validate:"required,role"`
	Department   string `yaml:"department" json:"department"`
	Password     string `yaml:"password" json:"password" validate:"required_without=PasswordHash"`
	PasswordHash string `yaml:"password_hash" json:"password_hash" validate:"required_without=Password"`
}

type seedFile struct {
	Users []Seed `yaml:"users"`
}

// LoadSeeds decodes and validates a YAML credential list.
func LoadSeeds(r io.Reader, validate *validator.Validate) ([]User, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding user seeds")
	}

	ids := make(map[string]bool, len(file.Users))
	unames := make(map[string]bool, len(file.Users))
	users := make([]User, 0, len(file.Users))
	for i, seed := range file.Users {
		seed.Username = core.CleanString(seed.Username, true /* lower */)
		seed.Name = core.CleanString(seed.Name)
		seed.Department = core.CleanString(seed.Department)

		if err := validate.Struct(seed); err != nil {
			return nil, errors.Wrapf(err, "validating user seed #%d", i)
		}
		if ids[seed.ID] || unames[seed.Username] {
			return nil, errors.Errorf("duplicate user seed #%d (%s)", i, seed.Username)
		}
		ids[seed.ID], unames[seed.Username] = true, true

		usr := User{
			ID:         seed.ID,
			Name:       seed.Name,
			Username:   seed.Username,
			Role:       seed.Role,
			Department: seed.Department,
		}
		if seed.PasswordHash != "" {
			usr.PasswordHash = []byte(seed.PasswordHash)
		} else if err := usr.SetPassword(seed.Password); err != nil {
			return nil, errors.Wrapf(err, "hashing password of user seed #%d", i)
		}
		users = append(users, usr)
	}
	return users, nil
}
