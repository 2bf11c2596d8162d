package inmemdb

import (
	"sync"

	"github.com/trezcool/academia/core/user"
)

type (
	DB struct {
		user *userTable
	}

	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}
)

func NewDB() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
	}
}

// LoadUsers inserts (or replaces) the seeded users.
func (db *DB) LoadUsers(users ...user.User) {
	db.user.mutex.Lock()
	defer db.user.mutex.Unlock()
	for _, usr := range users {
		usr := usr
		db.user.table[usr.ID] = &usr
	}
}
