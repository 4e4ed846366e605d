// Package change defines the CodeChange input type and its validation.
// A CodeChange is constructed by the caller (CI hook, editor extension,
// diff ingestion) immediately before analysis and is immutable after.
package change

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"guardrails/internal/errors"
)

// Type represents the kind of mutation a change proposes
type Type string

const (
	Create Type = "create"
	Modify Type = "modify"
	Delete Type = "delete"
	Move   Type = "move"
)

// CodeChange is one proposed mutation to one file
type CodeChange struct {
	ID          string    `json:"id" validate:"required"`
	Type        Type      `json:"type" validate:"required,oneof=create modify delete move"`
	FilePath    string    `json:"filePath" validate:"required"`
	OldContent  string    `json:"oldContent,omitempty"`
	NewContent  string    `json:"newContent,omitempty"`
	Author      string    `json:"author,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description,omitempty"`
}

var validate = validator.New()

// New constructs a validated CodeChange. A missing ID is filled with a
// UUID and a zero timestamp with the current time.
func New(c CodeChange) (*CodeChange, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks structural tags and the per-type content invariants:
// modify carries both contents, delete carries old, create carries new.
func Validate(c *CodeChange) error {
	if err := validate.Struct(c); err != nil {
		return errors.New(errors.InvalidChange, "change failed structural validation", err)
	}

	switch c.Type {
	case Modify:
		if c.OldContent == "" || c.NewContent == "" {
			return errors.Newf(errors.InvalidChange,
				"modify change %s must carry both old and new content", c.ID)
		}
	case Delete:
		if c.OldContent == "" {
			return errors.Newf(errors.InvalidChange,
				"delete change %s must carry old content", c.ID)
		}
	case Create:
		if c.NewContent == "" {
			return errors.Newf(errors.InvalidChange,
				"create change %s must carry new content", c.ID)
		}
	}
	return nil
}

// ValidateAll validates a batch, failing on the first invalid change
func ValidateAll(changes []CodeChange) error {
	for i := range changes {
		if err := Validate(&changes[i]); err != nil {
			return err
		}
	}
	return nil
}

// Content returns the content analysis should inspect: old content for
// deletes, new content otherwise.
func (c *CodeChange) Content() string {
	if c.Type == Delete {
		return c.OldContent
	}
	if c.NewContent != "" {
		return c.NewContent
	}
	return c.OldContent
}
