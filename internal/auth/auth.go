// internal/auth/auth.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long a seat token stays valid.
const TokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for any token that does not authenticate.
var ErrInvalidToken = errors.New("invalid token")

var secret []byte

// Init sets the HMAC key used to sign and verify tokens.
func Init(key string) {
	secret = []byte(key)
}

// seatClaims binds a token to one player in one match.
type seatClaims struct {
	GameID string `json:"gid"`
	jwt.RegisteredClaims
}

// CreateJWT issues a token for playerID seated in gameID.
func CreateJWT(playerID, gameID uuid.UUID) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("auth: signing key not initialised")
	}
	now := time.Now()
	claims := seatClaims{
		GameID: gameID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// AuthenticateJWT verifies tokenStr and returns the player and match it names.
func AuthenticateJWT(tokenStr string) (playerID, gameID uuid.UUID, err error) {
	var claims seatClaims
	_, err = jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if playerID, err = uuid.Parse(claims.Subject); err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	if gameID, err = uuid.Parse(claims.GameID); err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: bad game id", ErrInvalidToken)
	}
	return playerID, gameID, nil
}
