package ticket

import (
	"fmt"
	"net/mail"
	"strings"
)

// Author identifies who wrote a comment or changed a status.
type Author struct {
	name  string
	email string
}

func NewAuthor(name, email string) (Author, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return Author{}, fmt.Errorf("author name is required")
	}
	if email == "" {
		return Author{}, fmt.Errorf("author email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return Author{}, fmt.Errorf("author email %q is invalid", email)
	}
	return Author{name: name, email: email}, nil
}

// ReconstructAuthor rebuilds a stored author without validation.
func ReconstructAuthor(name, email string) Author {
	return Author{name: strings.TrimSpace(name), email: strings.TrimSpace(email)}
}

func (a Author) Name() string {
	return a.name
}

func (a Author) Email() string {
	return a.email
}

func (a Author) IsZero() bool {
	return a.name == "" && a.email == ""
}
