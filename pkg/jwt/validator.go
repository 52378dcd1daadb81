package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken    = errors.New("no token")
	ErrInvalid    = errors.New("invalid token")
	ErrUnknownKid = errors.New("unknown kid")
)

// Validator checks HS256 tokens against a set of secrets keyed by kid.
// With no secrets configured every non-empty token maps to "anon".
type Validator struct {
	keys map[string]string
	skew time.Duration
}

func New(keys map[string]string, skew time.Duration) *Validator {
	return &Validator{keys: keys, skew: skew}
}

// Validate returns the token subject.
func (v *Validator) Validate(token string) (string, error) {
	if token == "" {
		return "", ErrNoToken
	}
	if len(v.keys) == 0 {
		return "anon", nil
	}

	parser := jwtv5.NewParser(
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithLeeway(v.skew),
		jwtv5.WithIssuedAt(),
	)
	tok, err := parser.Parse(token, v.key)
	if err != nil || !tok.Valid {
		return "", ErrInvalid
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return "", ErrInvalid
	}
	sub, _ := claims.GetSubject()
	return sub, nil
}

func (v *Validator) key(t *jwtv5.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" && len(v.keys) == 1 {
		for _, s := range v.keys {
			return []byte(s), nil
		}
	}
	sec, ok := v.keys[kid]
	if !ok {
		return nil, ErrUnknownKid
	}
	return []byte(sec), nil
}
