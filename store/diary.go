package store

import "context"

// DiaryEntry represents one logged food item in a user's diet diary.
type DiaryEntry struct {
	ID        int32
	UserID    int32
	Food      string
	Calories  int
	CreatedTs int64
}

// FindDiaryEntry specifies the conditions for finding diary entries.
type FindDiaryEntry struct {
	ID     *int32
	UserID *int32
}

// DeleteDiaryEntry specifies the entry to delete.
type DeleteDiaryEntry struct {
	ID int32
}

// CreateDiaryEntry creates a new diary entry.
func (s *Store) CreateDiaryEntry(ctx context.Context, create *DiaryEntry) (*DiaryEntry, error) {
	return s.driver.CreateDiaryEntry(ctx, create)
}

// ListDiaryEntries lists diary entries matching the find conditions.
func (s *Store) ListDiaryEntries(ctx context.Context, find *FindDiaryEntry) ([]*DiaryEntry, error) {
	return s.driver.ListDiaryEntries(ctx, find)
}

// GetDiaryEntry returns the single entry matching the find conditions, or nil.
func (s *Store) GetDiaryEntry(ctx context.Context, find *FindDiaryEntry) (*DiaryEntry, error) {
	entries, err := s.driver.ListDiaryEntries(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0], nil
}

// DeleteDiaryEntryByID deletes a diary entry.
func (s *Store) DeleteDiaryEntryByID(ctx context.Context, delete *DeleteDiaryEntry) error {
	return s.driver.DeleteDiaryEntry(ctx, delete)
}
