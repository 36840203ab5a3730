// Package validation holds the rule sets checked before any customer
// mutation. Each function collects every failing field instead of stopping
// at the first one.
package validation

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Keoroanthony/go-customers/internal/models"
	"github.com/Keoroanthony/go-customers/internal/store"
)

const (
	MsgRequired        = "This field is required."
	MsgInvalidEmail    = "Invalid email address."
	MsgEmailTaken      = "Email address already taken."
	MsgOldPassword     = "The old password is not matching."
	MsgConfirmMatch    = "Field must be equal to confirm."
	MsgMethodPatch     = "Method must be PATCH."
	MsgPageNotPositive = "Page number has to be positive."
)

var validate = validator.New()

// Errors maps a field name to its failure messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Empty() bool { return len(e) == 0 }

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// EmailLookup is the part of the store used for the uniqueness check.
type EmailLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// PasswordVerifier checks a candidate against a stored hash.
type PasswordVerifier interface {
	Verify(hash, candidate string) bool
}

// Registration validates a self-registration payload.
func Registration(ctx context.Context, customers EmailLookup, email, password string) (Errors, error) {
	errs := Errors{}
	if err := checkNewEmail(ctx, customers, email, errs); err != nil {
		return nil, err
	}
	if strings.TrimSpace(password) == "" {
		errs.Add("password", MsgRequired)
	}
	return errs, nil
}

// AdminCreate validates a customer created from the back office. The
// password is generated server side so only the email is checked.
func AdminCreate(ctx context.Context, customers EmailLookup, email string) (Errors, error) {
	errs := Errors{}
	if err := checkNewEmail(ctx, customers, email, errs); err != nil {
		return nil, err
	}
	return errs, nil
}

// PasswordChange validates a password change for the acting customer.
func PasswordChange(method string, hasher PasswordVerifier, current *models.Customer, oldPassword, password, confirm string) Errors {
	errs := Errors{}

	if oldPassword == "" {
		errs.Add("old_password", MsgRequired)
	} else if !hasher.Verify(current.PasswordHash, oldPassword) {
		errs.Add("old_password", MsgOldPassword)
	}

	if password == "" {
		errs.Add("password", MsgRequired)
	} else if password != confirm {
		errs.Add("password", MsgConfirmMatch)
	}

	if confirm == "" {
		errs.Add("confirm", MsgRequired)
	}

	if method != http.MethodPatch {
		errs.Add("method", MsgMethodPatch)
	}
	return errs
}

// Page validates an admin listing page index.
func Page(page int) Errors {
	errs := Errors{}
	if page < 0 {
		errs.Add("page", MsgPageNotPositive)
	}
	return errs
}

// checkNewEmail runs the format check and, only for well-formed addresses,
// the uniqueness lookup.
func checkNewEmail(ctx context.Context, customers EmailLookup, email string, errs Errors) error {
	if err := validate.Var(email, "required,email"); err != nil {
		errs.Add("email", MsgInvalidEmail)
		return nil
	}

	_, err := customers.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	default:
		errs.Add("email", MsgEmailTaken)
		return nil
	}
}
