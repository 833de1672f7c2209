// Package feed holds the local, ordered copy of the post feed.
package feed

import (
	"sync"

	"uniconnect/internal/models"
	"uniconnect/internal/observability"
)

// Cache is the ordered, newest-first post list shown to the user. Every
// mutation is a point operation under one lock, and readers only ever see
// deep copies.
type Cache struct {
	mu    sync.RWMutex
	posts []models.Post
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Reset replaces the whole list. Later duplicates of an id are dropped.
func (c *Cache) Reset(posts []models.Post) {
	seen := make(map[string]struct{}, len(posts))
	next := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		next = append(next, p.Clone())
	}

	c.mu.Lock()
	c.posts = next
	c.mu.Unlock()
	observability.FeedCacheSize.Set(float64(len(next)))
}

// InsertAtHead prepends post. A post whose id is already cached is rejected
// and the cache is left unchanged.
func (c *Cache) InsertAtHead(post models.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(post.ID) >= 0 {
		return models.NewDuplicateIDError("post", post.ID)
	}
	next := make([]models.Post, 0, len(c.posts)+1)
	next = append(next, post.Clone())
	c.posts = append(next, c.posts...)
	observability.FeedCacheSize.Set(float64(len(c.posts)))
	return nil
}

// Replace swaps the post with the given id in place.
func (c *Cache) Replace(postID string, post models.Post) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(postID)
	if i < 0 {
		return models.NewNotFoundError("post", postID)
	}
	c.posts[i] = post.Clone()
	return nil
}

// Update applies fn to the cached post with the given id.
func (c *Cache) Update(postID string, fn func(*models.Post)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(postID)
	if i < 0 {
		return models.NewNotFoundError("post", postID)
	}
	fn(&c.posts[i])
	return nil
}

// MutateComments replaces one post's comment sequence with the result of fn.
// When fn fails nothing is changed.
func (c *Cache) MutateComments(postID string, fn func([]models.Comment) ([]models.Comment, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(postID)
	if i < 0 {
		return models.NewNotFoundError("post", postID)
	}
	next, err := fn(models.CloneComments(c.posts[i].Comments))
	if err != nil {
		return err
	}
	c.posts[i].Comments = next
	return nil
}

// Get returns a copy of one post.
func (c *Cache) Get(postID string) (models.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(postID)
	if i < 0 {
		return models.Post{}, false
	}
	return c.posts[i].Clone(), true
}

// Snapshot returns a copy of the whole list in display order.
func (c *Cache) Snapshot() []models.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Post, len(c.posts))
	for i := range c.posts {
		out[i] = c.posts[i].Clone()
	}
	return out
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.posts)
}

func (c *Cache) indexOf(postID string) int {
	for i := range c.posts {
		if c.posts[i].ID == postID {
			return i
		}
	}
	return -1
}
