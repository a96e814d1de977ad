package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yourorg/quizapi/internal/models"
)

const userColumns = `id, firstname, lastname, email, pass, role`

type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

func (s *Users) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

// Get returns the row set for id: empty when no user matches.
func (s *Users) Get(ctx context.Context, id int64) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

func (s *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.Pass, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// Create inserts u (whose Pass must already be hashed) and returns the new id.
func (s *Users) Create(ctx context.Context, u models.User) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (firstname, lastname, email, pass, role) VALUES (?, ?, ?, ?, ?)`,
		u.Firstname, u.Lastname, u.Email, u.Pass, u.Role)
	if err != nil {
		return 0, translate(err)
	}
	return res.LastInsertId()
}

// Update replaces every column of user id.
func (s *Users) Update(ctx context.Context, id int64, u models.User) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET firstname = ?, lastname = ?, email = ?, pass = ?, role = ? WHERE id = ?`,
		u.Firstname, u.Lastname, u.Email, u.Pass, u.Role, id)
	if err != nil {
		return translate(err)
	}
	return expectRows(res)
}

func (s *Users) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

func scanUsers(rows *sql.Rows) ([]models.User, error) {
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.Pass, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
