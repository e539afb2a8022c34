package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claim struct {
	Metadata Metadata `json:"metadata"`
	jwt.RegisteredClaims
}

type Metadata struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

// Issuer signs HS256 tokens for accounts and admins.
type Issuer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (i Issuer) Generate(meta Metadata, now time.Time) (string, error) {
	claim := Claim{
		Metadata: meta,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.Issuer,
			Subject:   meta.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claim).SignedString(i.Secret)
}

func (i Issuer) Parse(raw string) (*Claim, error) {
	claim := &Claim{}
	parsed, err := jwt.ParseWithClaims(raw, claim, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.Secret, nil
	}, jwt.WithIssuer(i.Issuer))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claim.Metadata.AccountID == "" && !claim.Metadata.IsAdmin {
		return nil, ErrInvalidToken
	}
	return claim, nil
}
