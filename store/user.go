package store

import "context"

// User represents a registered user.
type User struct {
	ID        int32
	Name      string
	Email     string
	CreatedTs int64
}

// FindUser specifies the conditions for finding users.
type FindUser struct {
	ID    *int32
	Email *string
}

// CreateUser creates a new user.
func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	return s.driver.CreateUser(ctx, create)
}

// ListUsers lists users matching the find conditions.
func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns the single user matching the find conditions, or nil.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	users, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}
