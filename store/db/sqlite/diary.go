package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/nutrisense/nutrisense/store"
)

func (d *DB) CreateDiaryEntry(ctx context.Context, create *store.DiaryEntry) (*store.DiaryEntry, error) {
	stmt := `INSERT INTO diary_entry (user_id, food, calories, created_ts) VALUES (?, ?, ?, ?) RETURNING id, created_ts`
	createdTs := time.Now().Unix()
	if err := d.db.QueryRowContext(ctx, stmt, create.UserID, create.Food, create.Calories, createdTs).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) ListDiaryEntries(ctx context.Context, find *store.FindDiaryEntry) ([]*store.DiaryEntry, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, food, calories, created_ts
		FROM diary_entry
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY created_ts DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*store.DiaryEntry{}
	for rows.Next() {
		entry := &store.DiaryEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Food, &entry.Calories, &entry.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, entry)
	}
	return list, rows.Err()
}

func (d *DB) DeleteDiaryEntry(ctx context.Context, delete *store.DeleteDiaryEntry) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM diary_entry WHERE id = ?`, delete.ID)
	return err
}
