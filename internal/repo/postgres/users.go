package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// List returns every user. Row order carries no guarantee; callers must not
// rely on insertion order.
func (r *UsersRepo) List(ctx context.Context) (users []user.User, err error) {
	err = r.observe("users.list", func() error {
		rows, e := r.pool.Query(ctx, `SELECT id, username, email, password FROM users`)
		if e != nil {
			return e
		}
		defer rows.Close()

		users = make([]user.User, 0)

		for rows.Next() {
			var u user.User
			if e := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash); e != nil {
				return e
			}
			users = append(users, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, username, email, password
			 FROM users
			 WHERE id = $1`,
			id,
		).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// EmailExists is the non-atomic pre-check before an insert. The unique index
// on email remains the source of truth; Create still maps the constraint
// violation when a concurrent insert wins the race.
func (r *UsersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool

	err := r.observe("users.email_exists", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
			email,
		).Scan(&exists)
	})

	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UsersRepo) Create(ctx context.Context, username, email, passwordHash string) (user.User, error) {
	var u user.User

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO users (username, email, password)
			 VALUES ($1, $2, $3)
			 RETURNING id, username, email`,
			username, email, passwordHash,
		).Scan(&u.ID, &u.Username, &u.Email)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}
	return u, nil
}

// Update applies whichever fields are set, leaving the rest untouched. The SET
// list is assembled only from this fixed column set; no caller-supplied text
// ever reaches the statement outside of a bind parameter.
func (r *UsersRepo) Update(ctx context.Context, id int64, fields user.UpdateUserFields) (user.User, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	appendSet := func(column string, value string) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if fields.Username != nil {
		appendSet("username", *fields.Username)
	}
	if fields.Email != nil {
		appendSet("email", *fields.Email)
	}
	if fields.PasswordHash != nil {
		appendSet("password", *fields.PasswordHash)
	}

	args = append(args, id)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) +
		` RETURNING id, username, email`

	var u user.User

	err := r.observe("users.update", func() error {
		return r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Username, &u.Email)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}
	return u, nil
}

// Delete removes the row and reports ErrNotFound when nothing matched, which
// makes repeated deletes fail idempotently after the first success.
func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("users.delete", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		return e
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}
