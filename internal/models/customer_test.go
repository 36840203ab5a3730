package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewCustomer(t *testing.T) {
	c := NewCustomer("a@b.com", "hash")

	assert.Equal(t, "a@b.com", c.Email)
	assert.Equal(t, "hash", c.PasswordHash)
	assert.False(t, c.Active)
	assert.Empty(t, c.Data.FirstName)
	assert.False(t, c.Data.Newsletter)
	assert.WithinDuration(t, time.Now(), c.Data.CreatedAt, time.Minute)
}

func TestProfileApply(t *testing.T) {
	d := CustomerData{FirstName: "Ada", LastName: "Lovelace", Cellphone: "1"}
	newsletter := true

	Profile{Cellphone: strPtr("555"), Newsletter: &newsletter}.Apply(&d)
	assert.Equal(t, "Ada", d.FirstName)
	assert.Equal(t, "Lovelace", d.LastName)
	assert.Equal(t, "555", d.Cellphone)
	assert.True(t, d.Newsletter)

	Profile{LastName: strPtr("")}.Apply(&d)
	assert.Empty(t, d.LastName, "empty string overwrites")
	assert.Equal(t, "Ada", d.FirstName)
}

func TestCustomerJSONOmitsPassword(t *testing.T) {
	c := NewCustomer("a@b.com", "secret-hash")
	c.ID = 3
	c.Data.CreatedAt = time.Date(2015, 3, 9, 10, 0, 0, 0, time.UTC)

	raw, err := json.Marshal(c.JSON())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 3,
		"email": "a@b.com",
		"data": {"first_name": "", "last_name": "", "cellphone": "", "newsletter": false, "created": "2015/03/09"}
	}`, string(raw))
	assert.NotContains(t, string(raw), "secret-hash")
}
