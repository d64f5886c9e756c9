package account

import (
	"strconv"
	"time"
)

// Account is a registered user of the remote storage.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PrincipalID is the identifier remote records are scoped by.
func (a *Account) PrincipalID() string {
	return strconv.FormatInt(a.ID, 10)
}
