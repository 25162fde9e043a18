package internal

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Identity is the display name and email of the person using the tracker. It is never verified.
type Identity struct {
	Name  string
	Email string
}

// Validate only requires both values to be present, the email format is not checked.
func (i Identity) Validate() error {
	if err := validation.ValidateStruct(&i,
		validation.Field(&i.Name, validation.By(notBlank)),
		validation.Field(&i.Email, validation.By(notBlank)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

// Trimmed returns a copy without surrounding whitespace.
func (i Identity) Trimmed() Identity {
	return Identity{
		Name:  strings.TrimSpace(i.Name),
		Email: strings.TrimSpace(i.Email),
	}
}
