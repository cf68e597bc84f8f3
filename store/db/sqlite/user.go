package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/nutrisense/nutrisense/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	stmt := `INSERT INTO user (name, email, created_ts) VALUES (?, ?, ?) RETURNING id, created_ts`
	createdTs := time.Now().Unix()
	if err := d.db.QueryRowContext(ctx, stmt, create.Name, create.Email, createdTs).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = ?"), append(args, *v)
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, email, created_ts
		FROM user
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*store.User{}
	for rows.Next() {
		user := &store.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, user)
	}
	return list, rows.Err()
}
