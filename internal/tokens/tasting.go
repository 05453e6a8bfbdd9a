package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
)

type TastingClaims struct {
	TastingID     string `json:"tasting_id"`
	AppointmentID string `json:"appointment_id"`
	jwt.RegisteredClaims
}

// TastingTokens issues the capability links customers use to confirm a tasting.
type TastingTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTastingTokens(secret string, ttl time.Duration) *TastingTokens {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &TastingTokens{secret: []byte(secret), ttl: ttl}
}

func (s *TastingTokens) Issue(tastingID, appointmentID uuid.UUID, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.ttl)

	claims := TastingClaims{
		TastingID:     tastingID.String(),
		AppointmentID: appointmentID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse validates signature and expiry against now.
func (s *TastingTokens) Parse(token string, now time.Time) (*TastingClaims, error) {
	claims := &TastingClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, httperr.ErrValidation("token_expired", "This confirmation link has expired.")
	}
	if err != nil {
		return nil, httperr.ErrValidation("invalid_token", "Invalid confirmation link.")
	}

	return claims, nil
}

// Verify checks the signature only. Confirmed tastings stay re-confirmable after the link
// expires, so expiry is left to the caller through Expired.
func (s *TastingTokens) Verify(token string) (*TastingClaims, error) {
	claims := &TastingClaims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_token", "Invalid confirmation link.")
	}

	return claims, nil
}

// Expired treats a token without exp as expired.
func (c *TastingClaims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || !now.Before(c.ExpiresAt.Time)
}
