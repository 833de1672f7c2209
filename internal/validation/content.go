// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MaxPostLength    = 5000
	MaxCommentLength = 2000
	MaxHashtags      = 30
	MaxFilesPerPost  = 10
)

// ParseHashtags splits a comma separated hashtag list. Entries are trimmed,
// empty entries are dropped, and order and duplicates are kept.
func ParseHashtags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// ValidateMessage trims a comment or reply body and checks it is usable.
func ValidateMessage(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", fmt.Errorf("content is required")
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return "", fmt.Errorf("content must not exceed %d characters", MaxCommentLength)
	}
	return trimmed, nil
}

// ValidatePost checks a new post has content or files, and that the
// hashtag and file counts stay within limits.
func ValidatePost(content string, hashtags []string, files int) error {
	if strings.TrimSpace(content) == "" && files == 0 {
		return fmt.Errorf("enter some content or add files for your post")
	}
	if utf8.RuneCountInString(content) > MaxPostLength {
		return fmt.Errorf("content must not exceed %d characters", MaxPostLength)
	}
	if len(hashtags) > MaxHashtags {
		return fmt.Errorf("a post can carry at most %d hashtags", MaxHashtags)
	}
	if files > MaxFilesPerPost {
		return fmt.Errorf("a post can carry at most %d files", MaxFilesPerPost)
	}
	return nil
}
