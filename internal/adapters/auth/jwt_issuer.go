package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

const tokenIssuer = "clinicdesk"

// JWTIssuer signs HS256 session tokens carrying the user id and role
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Ensure JWTIssuer implements TokenIssuer
var _ providers.TokenIssuer = (*JWTIssuer)(nil)

// NewJWTIssuer creates a token issuer
func NewJWTIssuer(secret string, ttl time.Duration, clock providers.Clock) *JWTIssuer {
	if clock == nil {
		clock = providers.SystemClock{}
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: clock.Now}
}

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issue signs a token for user
func (i *JWTIssuer) Issue(user *entities.User) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses token and returns its claims, or an unauthorized error
func (i *JWTIssuer) Verify(tokenStr string) (*providers.TokenClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}

	role, err := entities.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" {
		return nil, apperrors.NewUnauthorizedError("invalid token claims")
	}

	out := &providers.TokenClaims{UserID: claims.Subject, Role: role}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
