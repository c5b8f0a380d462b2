package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/common"
	"github.com/quentinL52/ai-interview-back/internal/config"
	"github.com/quentinL52/ai-interview-back/internal/shared"
)

type tokenUser struct {
	id    uuid.UUID
	email *string
}

func (u tokenUser) GetID() uuid.UUID  { return u.id }
func (u tokenUser) GetEmail() *string { return u.email }

func newTestJWTService(secret string, expiry time.Duration) shared.TokenService {
	cfg := &config.Config{
		JWTSecretKey:         secret,
		JWTAccessTokenExpiry: expiry,
	}
	return NewJWTService(cfg, zap.NewNop())
}

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := newTestJWTService("test-secret", 30*time.Minute)
	email := "alice@example.com"
	usr := tokenUser{id: uuid.New(), email: &email}

	tokenString, expiresAt, err := svc.GenerateAccessToken(usr)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, usr.id, claims.UserID)
	assert.Equal(t, email, claims.Subject)
}

func TestJWTServiceRejectsUserWithoutEmail(t *testing.T) {
	svc := newTestJWTService("test-secret", 30*time.Minute)

	_, _, err := svc.GenerateAccessToken(tokenUser{id: uuid.New()})
	require.Error(t, err)
}

func TestJWTServiceRejectsExpiredToken(t *testing.T) {
	svc := newTestJWTService("test-secret", -1*time.Minute)
	email := "bob@example.com"

	tokenString, _, err := svc.GenerateAccessToken(tokenUser{id: uuid.New(), email: &email})
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	require.Error(t, err)
}

func TestJWTServiceRejectsWrongSecret(t *testing.T) {
	issuer := newTestJWTService("secret-one", 30*time.Minute)
	verifier := newTestJWTService("secret-two", 30*time.Minute)
	email := "carol@example.com"

	tokenString, _, err := issuer.GenerateAccessToken(tokenUser{id: uuid.New(), email: &email})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(tokenString)
	require.Error(t, err)
}

func TestJWTServiceRejectsMissingSubject(t *testing.T) {
	svc := newTestJWTService("test-secret", 30*time.Minute)

	// Hand-crafted token with a valid signature but no subject claim.
	claims := &shared.Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	require.Error(t, err)
}

func TestJWTServiceRejectsGarbage(t *testing.T) {
	svc := newTestJWTService("test-secret", 30*time.Minute)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestStateStoreSingleUse(t *testing.T) {
	store := NewInMemoryStateStore(InMemoryStateStoreConfig{
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	})
	ctx := context.Background()

	state, err := store.Generate(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, state)

	ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	assert.True(t, ok)

	// A state cannot be replayed.
	ok, err = store.Consume(ctx, state)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown states are rejected.
	ok, err = store.Consume(ctx, "never-issued")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseProvider(t *testing.T) {
	provider, err := ParseProvider("google")
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, provider)

	provider, err = ParseProvider(" Google ")
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, provider)

	_, err = ParseProvider("github")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedProvider)
}
