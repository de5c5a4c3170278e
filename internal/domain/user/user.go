package user

import "errors"

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never expose hash in JSON
}

// UpdateUserFields carries the optional subset of columns a partial update may
// touch. Nil means "leave untouched"; the password is already hashed by the
// time it gets here.
type UpdateUserFields struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

func (f UpdateUserFields) Empty() bool {
	return f.Username == nil && f.Email == nil && f.PasswordHash == nil
}
