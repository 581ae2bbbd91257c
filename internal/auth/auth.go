// Package auth registers users, issues bearer tokens and resolves them back
// to user ids. Tokens are HS256 JWTs whose jti names a stored session, so a
// token stops working once its session is deleted.
package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"presence/backend/internal/entity"
	"presence/backend/internal/pkg/apperr"
	"presence/backend/internal/pkg/logger"
)

// TokenType is reported to clients alongside the access token.
const TokenType = "Bearer"

type ctxKey int

// Key is the context key under which Authenticate stores the caller id.
const Key ctxKey = 1

// Claims is the JWT payload. Subject holds the user id, ID the session id.
type Claims struct {
	jwt.RegisteredClaims
}

type Users interface {
	Create(ctx context.Context, user entity.User) (entity.User, error)
	GetByUsername(ctx context.Context, username string) (entity.User, error)
	GetByID(ctx context.Context, id int64) (entity.User, error)
}

type Sessions interface {
	Save(ctx context.Context, id string, userID int64, ttl time.Duration) error
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type Config struct {
	Key        string
	TokenTTL   time.Duration
	BcryptCost int
}

type Auth struct {
	users    Users
	sessions Sessions
	key      []byte
	ttl      time.Duration
	cost     int
	now      func() time.Time
	log      *logger.Logger

	// dummyHash is compared against when the username is unknown so that
	// both failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func New(users Users, sessions Sessions, cfg Config, log *logger.Logger) (*Auth, error) {
	if cfg.Key == "" {
		return nil, errors.New("auth: empty signing key")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("auth: token ttl must be positive")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("presence"), cfg.BcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "auth: preparing hash")
	}

	return &Auth{
		users:     users,
		sessions:  sessions,
		key:       []byte(cfg.Key),
		ttl:       cfg.TokenTTL,
		cost:      cfg.BcryptCost,
		now:       time.Now,
		log:       log,
		dummyHash: dummy,
	}, nil
}

// Register creates a user with a bcrypt hash of password.
func (a *Auth) Register(ctx context.Context, username, password string) (entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return entity.User{}, apperr.Validation("password must be at most 72 bytes")
		}
		return entity.User{}, errors.Wrap(err, "hashing password")
	}

	user, err := a.users.Create(ctx, entity.User{Username: username, PasswordHash: string(hash)})
	if err != nil {
		return entity.User{}, err
	}

	a.log.Info("user registered", "user_id", user.ID, "username", user.Username)

	return user, nil
}

// Login checks the credentials and opens a session. Unknown usernames and
// wrong passwords fail the same way.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	user, err := a.users.GetByUsername(ctx, username)
	if errors.Is(err, entity.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		return "", apperr.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.log.Debug("password mismatch", "user_id", user.ID)
		return "", apperr.ErrInvalidCredentials
	}

	now := a.now()
	sessionID := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	})

	signed, err := token.SignedString(a.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}

	if err = a.sessions.Save(ctx, sessionID, user.ID, a.ttl); err != nil {
		return "", err
	}

	a.log.Info("user logged in", "user_id", user.ID)

	return signed, nil
}

// ValidateToken checks the signature and expiry of tokenStr.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.key, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, apperr.Unauthenticated(err)
	}
	if !token.Valid {
		return Claims{}, apperr.Unauthenticated(errors.New("token is invalid"))
	}
	if claims.ID == "" {
		return Claims{}, apperr.Unauthenticated(errors.New("token has no session"))
	}

	return claims, nil
}

// Resolve maps a bearer token to the id of a live user.
func (a *Auth) Resolve(ctx context.Context, tokenStr string) (int64, error) {
	claims, err := a.ValidateToken(tokenStr)
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, apperr.Unauthenticated(errors.Wrap(err, "parsing subject"))
	}

	ok, err := a.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apperr.Unauthenticated(errors.New("session revoked or expired"))
	}

	if _, err = a.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return 0, apperr.Unauthenticated(err)
		}
		return 0, err
	}

	return userID, nil
}

// Logout deletes the session behind tokenStr.
func (a *Auth) Logout(ctx context.Context, tokenStr string) error {
	claims, err := a.ValidateToken(tokenStr)
	if err != nil {
		return err
	}

	if err = a.sessions.Delete(ctx, claims.ID); err != nil {
		return err
	}

	a.log.Info("user logged out", "user_id", claims.Subject)

	return nil
}

// WithUserID returns a copy of ctx carrying the caller id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, Key, userID)
}

// UserIDFromContext returns the caller id stored by Authenticate.
func UserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(Key).(int64)
	if !ok || userID == 0 {
		return 0, apperr.Unauthenticated(errors.New("user id missing from context"))
	}

	return userID, nil
}
