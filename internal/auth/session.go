package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const sessionKeyPrefix = "session:"

var ErrSessionNotFound = errors.New("session not found or expired")

type UserSession struct {
	ExpiresAt time.Time          `json:"expiresAt"`
	UserID    primitive.ObjectID `json:"userId"`
	Email     string             `json:"email"`
	Role      models.UserRole    `json:"role"`
}

func (s UserSession) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *UserSession) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}

// Checks if user session is expired.
func (s UserSession) Expired() bool {
	return s.ExpiresAt.Before(time.Now())
}

// SessionStore keeps login sessions in Redis under an opaque bearer key.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Create stores a new session for user and returns its key.
func (s *SessionStore) Create(ctx context.Context, user *models.User) (string, UserSession, error) {
	key, err := GenerateSecureToken(20)
	if err != nil {
		return "", UserSession{}, err
	}

	session := UserSession{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+key, session, s.ttl).Err(); err != nil {
		return "", UserSession{}, errors.Wrap(err, "store session")
	}
	return key, session, nil
}

func (s *SessionStore) Get(ctx context.Context, key string) (UserSession, error) {
	var session UserSession
	err := s.client.Get(ctx, sessionKeyPrefix+key).Scan(&session)
	if err == redis.Nil {
		return UserSession{}, ErrSessionNotFound
	}
	if err != nil {
		return UserSession{}, errors.Wrap(err, "load session")
	}
	if session.Expired() {
		return UserSession{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, sessionKeyPrefix+key).Err()
}

// FromRequest loads the session named by the request's bearer token.
func (s *SessionStore) FromRequest(c *gin.Context) (string, UserSession, error) {
	key, err := ExtractSessionKey(c)
	if err != nil {
		return "", UserSession{}, err
	}
	session, err := s.Get(c.Request.Context(), key)
	return key, session, err
}

// Extract session token from request header.
func ExtractSessionKey(c *gin.Context) (string, error) {
	return ExtractBearerToken(c.GetHeader("Authorization"))
}

// ExtractBearerToken extracts the Bearer token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is empty")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", fmt.Errorf("authorization header does not start with 'Bearer '")
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", fmt.Errorf("token is empty")
	}

	return token, nil
}
