package store

import "context"

// Post represents a community post.
type Post struct {
	ID        int32
	UserID    int32
	Content   string
	CreatedTs int64
}

// FindPost specifies the conditions for finding posts.
type FindPost struct {
	ID     *int32
	UserID *int32
}

// CreatePost creates a new post.
func (s *Store) CreatePost(ctx context.Context, create *Post) (*Post, error) {
	return s.driver.CreatePost(ctx, create)
}

// ListPosts lists posts matching the find conditions.
func (s *Store) ListPosts(ctx context.Context, find *FindPost) ([]*Post, error) {
	return s.driver.ListPosts(ctx, find)
}

// GetPost returns the single post matching the find conditions, or nil.
func (s *Store) GetPost(ctx context.Context, find *FindPost) (*Post, error) {
	posts, err := s.driver.ListPosts(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return posts[0], nil
}
