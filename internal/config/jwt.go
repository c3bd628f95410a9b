package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims bind a token to the one game session it may play.
type SessionClaims struct {
	GameSessionId string `json:"game_session_id"`
	jwt.RegisteredClaims
}

type JWT struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

func loadSecret() ([]byte, error) {
	secret, ok := os.LookupEnv("JWT_SECRET")
	if ok {
		return []byte(secret), nil
	}
	secretPath, ok := os.LookupEnv("JWT_SECRET_FILE")
	if !ok {
		return nil, nil
	}
	data, err := os.ReadFile(secretPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT secret: %w", err)
	}
	return []byte(strings.TrimSpace(string(data))), nil
}

// NewJWT reads the signing secret from JWT_SECRET or JWT_SECRET_FILE. With
// neither set a random secret is generated, so tokens die with the process
// just like the sessions they guard.
func NewJWT(tokenLifetime time.Duration) (*JWT, error) {
	secret, err := loadSecret()
	if err != nil {
		return nil, err
	}
	if secret == nil {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("unable to generate JWT secret: %w", err)
		}
	}
	return NewJWTWithSecret(secret, tokenLifetime), nil
}

func NewJWTWithSecret(secret []byte, tokenLifetime time.Duration) *JWT {
	return &JWT{
		secret:        secret,
		signingMethod: jwt.SigningMethodHS256,
		tokenLifetime: tokenLifetime,
	}
}

func (j *JWT) Sign(gameSessionId string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		GameSessionId: gameSessionId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameSessionId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.secret)
}

func (j *JWT) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
