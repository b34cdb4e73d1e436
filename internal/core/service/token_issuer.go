package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenTTL = 30 * time.Minute

// TokenIssuer builds the signed bearer tokens handed out at login.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

// IssuedToken is the result of a single issuance.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TTL returns the configured token lifetime.
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Issue signs a token for the given subject. The claim set is exactly
// {sub, jti, iss, aud, exp}; interoperating clients validate against these
// names, so they must not change.
func (i *TokenIssuer) Issue(subject string) (IssuedToken, error) {
	jti := uuid.NewString()
	expires := time.Now().Add(i.ttl)

	claims := jwt.MapClaims{
		"sub": subject,
		"jti": jti,
		"iss": i.issuer,
		"aud": i.audience,
		"exp": expires.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	return IssuedToken{Token: signed, ID: jti, ExpiresAt: expires}, nil
}
