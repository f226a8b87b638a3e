package editor

import (
	"encoding/json"
	"strings"

	"github.com/arvidhall/wellnessflow/internal/domain"
)

// Buffer is the working copy of a session being edited. A buffer with an
// empty SessionID is unsaved and exists only in client memory until the
// first successful persist assigns one.
type Buffer struct {
	SessionID string
	Title     string
	Tags      []string
	Content   string
	Status    domain.Status
}

// NewBuffer returns an empty draft buffer for a new session.
func NewBuffer() *Buffer {
	return &Buffer{Status: domain.StatusDraft}
}

// NewBufferFromDocument hydrates a buffer from a stored session.
func NewBufferFromDocument(doc *SessionDocument) *Buffer {
	return &Buffer{
		SessionID: doc.ID,
		Title:     doc.Title,
		Tags:      append([]string{}, doc.Tags...),
		Content:   doc.Content,
		Status:    domain.Status(doc.Status),
	}
}

// AddTag trims the tag and appends it unless it is empty or already present.
// Reports whether the buffer changed.
func (b *Buffer) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, existing := range b.Tags {
		if existing == tag {
			return false
		}
	}
	b.Tags = append(b.Tags, tag)
	return true
}

// RemoveTag drops the tag from the buffer. Reports whether the buffer changed.
func (b *Buffer) RemoveTag(tag string) bool {
	for i, existing := range b.Tags {
		if existing == tag {
			b.Tags = append(b.Tags[:i], b.Tags[i+1:]...)
			return true
		}
	}
	return false
}

type bufferSnapshot struct {
	Title   string   `json:"title"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
	Status  string   `json:"status"`
}

// Snapshot returns a canonical serialization of the buffer's persistable
// fields. Dirtiness is defined as the current snapshot differing from the
// snapshot taken at the last successful persist.
func (b *Buffer) Snapshot() string {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(bufferSnapshot{
		Title:   b.Title,
		Tags:    tags,
		Content: b.Content,
		Status:  string(b.Status),
	})
	if err != nil {
		// Only strings inside; Marshal cannot fail.
		panic(err)
	}
	return string(raw)
}

// draft converts the buffer into the persist payload.
func (b *Buffer) draft() SessionDraft {
	return SessionDraft{
		Title:   strings.TrimSpace(b.Title),
		Tags:    append([]string{}, b.Tags...),
		Content: b.Content,
		Status:  string(b.Status),
	}
}
