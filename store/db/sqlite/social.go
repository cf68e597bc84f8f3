package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/nutrisense/nutrisense/store"
)

func (d *DB) CreatePost(ctx context.Context, create *store.Post) (*store.Post, error) {
	stmt := `INSERT INTO post (user_id, content, created_ts) VALUES (?, ?, ?) RETURNING id, created_ts`
	createdTs := time.Now().Unix()
	if err := d.db.QueryRowContext(ctx, stmt, create.UserID, create.Content, createdTs).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) ListPosts(ctx context.Context, find *store.FindPost) ([]*store.Post, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, content, created_ts
		FROM post
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY created_ts DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*store.Post{}
	for rows.Next() {
		post := &store.Post{}
		if err := rows.Scan(&post.ID, &post.UserID, &post.Content, &post.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, post)
	}
	return list, rows.Err()
}
