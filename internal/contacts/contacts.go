package contacts

import (
	"fmt"
	"strings"
	"sync"

	"codeberg.org/mutker/drivemon/internal/errors"
	"github.com/google/uuid"
)

const (
	ErrNotFound     = errors.ErrorCode("contacts_not_found")
	ErrInvalidInput = errors.ErrorCode("contacts_invalid_input")

	defaultPhone = "000-0000-0000"
)

// Contact is someone notified when a health alert is raised.
type Contact struct {
	ID    string
	Name  string
	Phone string
}

// Registry is an in-memory list of emergency contacts.
type Registry struct {
	mu       sync.RWMutex
	contacts []Contact
}

// Defaults returns the contacts a new profile starts with.
func Defaults() []Contact {
	return []Contact{
		{ID: uuid.NewString(), Name: "Mom", Phone: "010-1234-5678"},
		{ID: uuid.NewString(), Name: "Dad", Phone: "010-8765-4321"},
	}
}

// NewRegistry returns a registry holding initial, in order.
func NewRegistry(initial ...Contact) *Registry {
	r := &Registry{}
	r.contacts = append(r.contacts, initial...)

	return r
}

// Add stores a new contact. Blank names and phones fall back to placeholders.
func (r *Registry) Add(name, phone string) Contact {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := Contact{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
	}
	if c.Name == "" {
		c.Name = fmt.Sprintf("Contact %d", len(r.contacts)+1)
	}
	if c.Phone == "" {
		c.Phone = defaultPhone
	}

	r.contacts = append(r.contacts, c)

	return c
}

// Remove deletes the contact with the given id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := uuid.Parse(id); err != nil {
		return errors.New().Wrap(ErrInvalidInput, err)
	}

	for i, c := range r.contacts {
		if c.ID == id {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
			return nil
		}
	}

	return errors.New().WithData(ErrNotFound, id)
}

// List returns a copy of the contacts in insertion order.
func (r *Registry) List() []Contact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Contact, len(r.contacts))
	copy(out, r.contacts)

	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.contacts)
}
