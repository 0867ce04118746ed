package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeToken builds an unsigned JWT with the given claims payload. The
// service only reads claims; the signature is the gateway's concern.
func makeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func TestParseBearer(t *testing.T) {
	t.Run("extracts identity from claims", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{
			"email":          "owner@example.com",
			"sub":            "subject-1",
			"cognito:groups": []string{"venue", "profile"},
		})

		ident, err := ParseBearer("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", ident.Email)
		assert.Equal(t, "subject-1", ident.Subject)
		assert.Equal(t, []string{"venue", "profile"}, ident.Groups)
	})

	t.Run("works without Bearer prefix", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{
			"email": "owner@example.com",
			"sub":   "subject-1",
		})

		ident, err := ParseBearer(token)
		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", ident.Email)
		assert.Empty(t, ident.Groups)
	})

	tests := []struct {
		name   string
		header string
	}{
		{"empty header", ""},
		{"not a token", "Bearer not-a-token"},
		{"two segments", "Bearer abc.def"},
		{"payload not base64", "Bearer a.!!!.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBearer(tt.header)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	t.Run("missing email rejected", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{"sub": "subject-1"})
		_, err := ParseBearer("Bearer " + token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing subject rejected", func(t *testing.T) {
		token := makeToken(t, map[string]interface{}{"email": "owner@example.com"})
		_, err := ParseBearer("Bearer " + token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIdentity_InGroup(t *testing.T) {
	ident := &Identity{Groups: []string{"venue"}}

	assert.True(t, ident.InGroup("venue"))
	assert.False(t, ident.InGroup("profile"))
	assert.False(t, (&Identity{}).InGroup("venue"))
}

func TestContextCarrier(t *testing.T) {
	ident := &Identity{Email: "owner@example.com", Subject: "subject-1"}

	ctx := With(context.Background(), ident)
	got, ok := From(ctx)
	require.True(t, ok)
	assert.Equal(t, ident, got)

	_, ok = From(context.Background())
	assert.False(t, ok)
}
