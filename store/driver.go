package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that a store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate brings the schema up to date. Idempotent.
	Migrate(ctx context.Context) error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)

	// DiaryEntry model related methods.
	CreateDiaryEntry(ctx context.Context, create *DiaryEntry) (*DiaryEntry, error)
	ListDiaryEntries(ctx context.Context, find *FindDiaryEntry) ([]*DiaryEntry, error)
	DeleteDiaryEntry(ctx context.Context, delete *DeleteDiaryEntry) error

	// Post model related methods.
	CreatePost(ctx context.Context, create *Post) (*Post, error)
	ListPosts(ctx context.Context, find *FindPost) ([]*Post, error)
}
