package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"convodb/pkg/config"
	"convodb/pkg/models"
	"convodb/pkg/store"
)

// IssueToken returns a signed HS256 session token for the account.
func IssueToken(a models.Account) (string, error) {
	secret := config.GetTokenSecret()
	if secret == "" {
		return "", fmt.Errorf("no token secret configured")
	}
	claims := jwt.MapClaims{
		"sub":   a.ID,
		"email": a.Email,
		"exp":   time.Now().Add(config.GetTokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken validates a session token and resolves its account.
func VerifyToken(tokenString string) (models.Account, error) {
	secret := config.GetTokenSecret()
	if secret == "" {
		return models.Account{}, fmt.Errorf("no token secret configured")
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.Account{}, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Account{}, ErrInvalidCredentials
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return models.Account{}, ErrInvalidCredentials
	}
	a, err := store.GetAccountByID(sub)
	if errors.Is(err, store.ErrNotFound) {
		return models.Account{}, ErrInvalidCredentials
	}
	return a, err
}
