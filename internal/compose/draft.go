// Package compose holds the state of a post being written: its text, its
// hashtags and the files attached to it together with their previews.
package compose

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"uniconnect/internal/models"
)

// Poster publishes a finished draft.
type Poster interface {
	CreatePost(ctx context.Context, content, hashtags string, files []models.Upload) (models.Post, error)
}

// Attachment is a selected file and the preview handle shown for it.
type Attachment struct {
	File    models.Upload
	Preview string
}

// Draft is safe for concurrent use.
type Draft struct {
	mu          sync.Mutex
	previews    PreviewAllocator
	content     string
	hashtags    string
	attachments []Attachment
}

func NewDraft(previews PreviewAllocator) *Draft {
	return &Draft{previews: previews}
}

func (d *Draft) SetContent(content string) {
	d.mu.Lock()
	d.content = content
	d.mu.Unlock()
}

// SetHashtags stores the raw comma separated hashtag input.
func (d *Draft) SetHashtags(raw string) {
	d.mu.Lock()
	d.hashtags = raw
	d.mu.Unlock()
}

// AddFile attaches file and allocates its preview.
func (d *Draft) AddFile(file models.Upload) (Attachment, error) {
	handle, err := d.previews.Create(file)
	if err != nil {
		return Attachment{}, err
	}
	a := Attachment{File: file, Preview: handle}
	d.mu.Lock()
	d.attachments = append(d.attachments, a)
	d.mu.Unlock()
	return a, nil
}

// RemoveFile detaches the i-th file and releases its preview.
func (d *Draft) RemoveFile(i int) error {
	d.mu.Lock()
	if i < 0 || i >= len(d.attachments) {
		d.mu.Unlock()
		return models.NewNotFoundError("attachment", i)
	}
	a := d.attachments[i]
	d.attachments = append(d.attachments[:i:i], d.attachments[i+1:]...)
	d.mu.Unlock()
	return d.previews.Release(a.Preview)
}

// Attachments returns the attached files in selection order.
func (d *Draft) Attachments() []Attachment {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Attachment(nil), d.attachments...)
}

// Submit publishes the draft. On success the submitted previews are released
// and removed; files attached while the upload was in flight stay attached.
// On failure the draft is left as it was so the user can retry.
func (d *Draft) Submit(ctx context.Context, poster Poster) (models.Post, error) {
	d.mu.Lock()
	content, hashtags := d.content, d.hashtags
	submitted := append([]Attachment(nil), d.attachments...)
	d.mu.Unlock()

	files := make([]models.Upload, len(submitted))
	for i, a := range submitted {
		files[i] = a.File
	}
	post, err := poster.CreatePost(ctx, content, hashtags, files)
	if err != nil {
		return models.Post{}, err
	}

	sent := make(map[string]bool, len(submitted))
	for _, a := range submitted {
		sent[a.Preview] = true
	}
	d.mu.Lock()
	kept := d.attachments[:0:0]
	for _, a := range d.attachments {
		if !sent[a.Preview] {
			kept = append(kept, a)
		}
	}
	d.attachments = kept
	if d.content == content {
		d.content = ""
	}
	if d.hashtags == hashtags {
		d.hashtags = ""
	}
	d.mu.Unlock()
	return post, d.release(submitted)
}

// Close releases every remaining preview.
func (d *Draft) Close() error {
	d.mu.Lock()
	attachments := d.attachments
	d.attachments = nil
	d.content = ""
	d.hashtags = ""
	d.mu.Unlock()
	return d.release(attachments)
}

func (d *Draft) release(attachments []Attachment) error {
	var errs []error
	for _, a := range attachments {
		if err := d.previews.Release(a.Preview); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", a.File.Name, err))
		}
	}
	return errors.Join(errs...)
}
