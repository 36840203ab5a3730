package validation

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keoroanthony/go-customers/internal/models"
	"github.com/Keoroanthony/go-customers/internal/store"
)

type fakeLookup struct {
	taken map[string]bool
	err   error
	calls int
}

func (f *fakeLookup) GetByEmail(_ context.Context, email string) (*models.Customer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.taken[email] {
		return models.NewCustomer(email, "hash"), nil
	}
	return nil, store.ErrNotFound
}

// plainVerifier compares cleartext so tests do not pay for bcrypt.
type plainVerifier struct{}

func (plainVerifier) Verify(hash, candidate string) bool { return hash == candidate }

func TestRegistration(t *testing.T) {
	ctx := context.Background()
	lookup := &fakeLookup{taken: map[string]bool{"test@test.org": true}}

	tests := []struct {
		name     string
		email    string
		password string
		want     Errors
	}{
		{"empty payload", "", "", Errors{"email": {MsgInvalidEmail}, "password": {MsgRequired}}},
		{"missing email", "", "test", Errors{"email": {MsgInvalidEmail}}},
		{"malformed email", "test@", "test", Errors{"email": {MsgInvalidEmail}}},
		{"email taken", "test@test.org", "test", Errors{"email": {MsgEmailTaken}}},
		{"blank password", "new@test.org", "   ", Errors{"password": {MsgRequired}}},
		{"valid", "new@test.org", "test2", Errors{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := Registration(ctx, lookup, tt.email, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.want, errs)
		})
	}
}

func TestRegistrationSkipsLookupForMalformedEmail(t *testing.T) {
	lookup := &fakeLookup{}
	_, err := Registration(context.Background(), lookup, "not-an-email", "pw")
	require.NoError(t, err)
	assert.Zero(t, lookup.calls)
}

func TestRegistrationStoreFailure(t *testing.T) {
	boom := errors.New("db down")
	_, err := Registration(context.Background(), &fakeLookup{err: boom}, "a@b.com", "pw")
	assert.ErrorIs(t, err, boom)
}

func TestAdminCreate(t *testing.T) {
	lookup := &fakeLookup{taken: map[string]bool{"a@b.com": true}}

	errs, err := AdminCreate(context.Background(), lookup, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, Errors{"email": {MsgEmailTaken}}, errs)

	errs, err = AdminCreate(context.Background(), lookup, "c@d.com")
	require.NoError(t, err)
	assert.True(t, errs.Empty())
}

func TestPasswordChange(t *testing.T) {
	current := models.NewCustomer("a@b.com", "test")

	tests := []struct {
		name                   string
		method                 string
		old, password, confirm string
		fields                 []string
	}{
		{"no data", http.MethodPatch, "", "", "", []string{"old_password", "password", "confirm"}},
		{"old password wrong", http.MethodPatch, "test2", "test", "test", []string{"old_password"}},
		{"confirm mismatch", http.MethodPatch, "test", "test2", "test", []string{"password"}},
		{"wrong method", http.MethodPut, "test", "test2", "test2", []string{"method"}},
		{"valid", http.MethodPatch, "test", "test2", "test2", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := PasswordChange(tt.method, plainVerifier{}, current, tt.old, tt.password, tt.confirm)
			assert.Len(t, errs, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestPage(t *testing.T) {
	assert.True(t, Page(0).Empty())
	assert.True(t, Page(3).Empty())
	assert.Equal(t, Errors{"page": {MsgPageNotPositive}}, Page(-1))
}

func TestErrorsError(t *testing.T) {
	errs := Errors{}
	errs.Add("password", MsgRequired)
	errs.Add("email", MsgInvalidEmail)
	errs.Add("email", MsgEmailTaken)

	assert.Equal(t,
		"validation failed: email: Invalid email address. Email address already taken.; password: This field is required.",
		errs.Error())
}
