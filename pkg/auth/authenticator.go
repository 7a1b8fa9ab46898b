package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Account is a configured login. Accounts without a password hash cannot log in.
type Account struct {
	Username     string
	PasswordHash string
	Role         Role
}

type claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	accounts map[string]Account
	now      func() time.Time
}

func NewAuthenticator(secret string, ttl time.Duration, issuer string, accounts ...Account) *Authenticator {
	byName := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		if a.Username == "" || a.PasswordHash == "" {
			continue
		}
		byName[a.Username] = a
	}
	return &Authenticator{
		secret:   []byte(secret),
		ttl:      ttl,
		issuer:   issuer,
		accounts: byName,
		now:      time.Now,
	}
}

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Session     Session   `json:"session"`
}

// Login checks the password against the account's bcrypt hash and issues a
// signed token carrying the account's role.
func (a *Authenticator) Login(username, password string) (*Token, error) {
	account, ok := a.accounts[username]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Username,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.UTC(),
		Session:     Session{Username: account.Username, Role: account.Role},
	}, nil
}

// Verify resolves a signed token back into the session it was issued for.
func (a *Authenticator) Verify(tokenString string) (Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	role, err := ParseRole(string(c.Role))
	if err != nil || c.Subject == "" {
		return Session{}, ErrInvalidToken
	}
	return Session{Username: c.Subject, Role: role}, nil
}
