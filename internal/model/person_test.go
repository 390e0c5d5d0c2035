package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerson_FormattedCreatedAt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "local date time", raw: "2024-03-05T14:07:00", want: "05/03/2024 14:07"},
		{name: "fractional seconds", raw: "2024-03-05T14:07:09.123456", want: "05/03/2024 14:07"},
		{name: "utc offset", raw: "2024-03-05T14:07:00Z", want: "05/03/2024 14:07"},
		{name: "offset kept as written", raw: "2024-03-05T23:30:00-03:00", want: "05/03/2024 23:30"},
		{name: "offset without seconds", raw: "2024-03-05T14:07Z", want: "05/03/2024 14:07"},
		{name: "numeric offset without seconds", raw: "2024-03-05T14:07+01:00", want: "05/03/2024 14:07"},
		{name: "unparsable is returned as-is", raw: "yesterday", want: "yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Person{CreatedAt: tt.raw, UpdatedAt: tt.raw}
			assert.Equal(t, tt.want, p.FormattedCreatedAt())
			assert.Equal(t, tt.want, p.FormattedUpdatedAt())
		})
	}
}

func TestPerson_JSONOmitsEmpty(t *testing.T) {
	b, err := json.Marshal(Person{Name: "Ada"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ada"}`, string(b))

	var p Person
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","name":"Ada","email":"ada@example.com","createdAt":"2024-01-01T10:00:00"}`), &p))
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "2024-01-01T10:00:00", p.CreatedAt)
}

func TestPersonInput_Normalize(t *testing.T) {
	in := PersonInput{Name: "  Ada Lovelace ", Email: "\tada@example.com\n"}.Normalize()
	assert.Equal(t, "Ada Lovelace", in.Name)
	assert.Equal(t, "ada@example.com", in.Email)
}

func TestPersonInput_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, PersonInput{Name: "Ada", Email: "ada@example.com"}.Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		err := PersonInput{}.Validate()
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Name is required.", verr.Fields["name"])
		assert.Equal(t, "Email is required.", verr.Fields["email"])
		assert.Equal(t, "invalid person input: email, name", err.Error())
	})

	t.Run("malformed email", func(t *testing.T) {
		for _, email := range []string{"not-an-email", "Ada <ada@example.com>", "a@b@c"} {
			err := PersonInput{Name: "Ada", Email: email}.Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), email)
			assert.Equal(t, "Email must be a valid address.", verr.Fields["email"])
			assert.NotContains(t, verr.Fields, "name")
		}
	})
}
