package security

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/username/shipflow/backend/src/config"
)

// AuthService issues and validates the short-lived HS256 tokens that protect
// the waybill endpoints. Clients exchange the deployment's API key for a
// token; there are no per-user accounts in this system.
type AuthService struct {
	JWTSecret string
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{
		JWTSecret: secret,
	}
}

// ExchangeAPIKey verifies the presented API key and issues a token for the
// named client.
func (a *AuthService) ExchangeAPIKey(apiKey, client string) (string, error) {
	if config.Cfg == nil {
		return "", errors.New("configuration not loaded, cannot determine token expiry")
	}
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(config.Cfg.ServiceAPIKey)) != 1 {
		return "", errors.New("invalid API key")
	}
	if client == "" {
		client = "default"
	}

	claims := jwt.MapClaims{
		"sub": client,
		"exp": time.Now().Add(config.Cfg.AccessTokenExpiry).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.JWTSecret))
}

// ValidateToken checks the token signature and expiry and returns the client
// name it was issued to.
func (a *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.JWTSecret), nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok {
			return "", errors.New("invalid token: 'sub' claim missing or not a string")
		}
		return sub, nil
	}

	return "", errors.New("invalid token")
}
