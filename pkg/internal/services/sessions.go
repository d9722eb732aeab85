package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/spf13/viper"
)

const (
	SessionIssuer = "health-takeaways"

	// BrowserSessionTTL bounds the token of a session that lives only as
	// long as the browser keeps its cookie.
	BrowserSessionTTL = 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid session")

type SessionClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

func getSessionSecret() ([]byte, error) {
	secret := viper.GetString("security.session_secret")
	if len(secret) == 0 {
		return nil, fmt.Errorf("security.session_secret is not configured")
	}
	return []byte(secret), nil
}

// GetSessionTTL is how long a remembered session lasts.
func GetSessionTTL() time.Duration {
	ttl := viper.GetDuration("security.session_ttl")
	if ttl <= 0 {
		return 14 * 24 * time.Hour
	}
	return ttl
}

func NewSessionToken(user models.Account, ttl time.Duration) (string, error) {
	secret, err := getSessionSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    SessionIssuer,
			Subject:   strconv.Itoa(int(user.ID)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: user.Name,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseSessionToken verifies the token and returns the account id it was
// issued for.
func ParseSessionToken(token string) (uint, error) {
	secret, err := getSessionSecret()
	if err != nil {
		return 0, err
	}

	var claims SessionClaims
	if _, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(SessionIssuer),
		jwt.WithExpirationRequired(),
	); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidSession
	}
	return uint(id), nil
}
