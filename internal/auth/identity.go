package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dgrijalva/jwt-go"
)

// Identity is the authenticated caller as asserted by the upstream gateway.
type Identity struct {
	Email   string
	Subject string
	Groups  []string
}

// InGroup reports whether the caller belongs to the named identity group.
func (i *Identity) InGroup(name string) bool {
	for _, g := range i.Groups {
		if g == name {
			return true
		}
	}
	return false
}

// ErrInvalidToken is returned when no usable identity can be extracted from
// the Authorization header.
var ErrInvalidToken = errors.New("invalid bearer token")

// ParseBearer extracts the caller identity from an Authorization header
// value. The gateway in front of this service has already verified the
// token signature, so only the claims payload is decoded here.
func ParseBearer(header string) (*Identity, error) {
	if header == "" {
		return nil, ErrInvalidToken
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	subject, _ := claims["sub"].(string)
	if email == "" || subject == "" {
		return nil, ErrInvalidToken
	}

	ident := &Identity{
		Email:   email,
		Subject: subject,
	}

	if raw, ok := claims["cognito:groups"].([]interface{}); ok {
		for _, g := range raw {
			if name, ok := g.(string); ok {
				ident.Groups = append(ident.Groups, name)
			}
		}
	}

	return ident, nil
}

type contextKey struct{}

// With returns a context carrying the caller identity.
func With(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, ident)
}

// From extracts the caller identity from the context, if present.
func From(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(contextKey{}).(*Identity)
	return ident, ok
}
