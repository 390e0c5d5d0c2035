// Package model holds the Person types exchanged with the remote APIs.
package model

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"
)

// displayLayout is the dd/MM/yyyy HH:mm format used on rendered pages.
const displayLayout = "02/01/2006 15:04"

// timestampLayouts are tried in order when parsing API timestamps.
// Offsets are kept as written; nothing is converted to local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
}

// Person is the only domain entity. Values come straight from the Query API;
// timestamps stay strings so an unexpected format never fails a page render.
type Person struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// FormattedCreatedAt renders CreatedAt for display.
func (p Person) FormattedCreatedAt() string {
	return formatTimestamp(p.CreatedAt)
}

// FormattedUpdatedAt renders UpdatedAt for display.
func (p Person) FormattedUpdatedAt() string {
	return formatTimestamp(p.UpdatedAt)
}

func formatTimestamp(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayLayout)
		}
	}
	return raw
}

// PersonInput is the write payload accepted by the Command API.
type PersonInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Normalize trims surrounding whitespace from every field.
func (in PersonInput) Normalize() PersonInput {
	return PersonInput{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}
}

// Validate reports missing or malformed fields.
func (in PersonInput) Validate() error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "Name is required."
	}
	switch {
	case in.Email == "":
		fields["email"] = "Email is required."
	case !isAddress(in.Email):
		fields["email"] = "Email must be a valid address."
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func isAddress(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// ValidationError maps a form field name to a user-facing message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid person input: %s", strings.Join(names, ", "))
}
