package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"settlr/internal/config"
	"settlr/internal/model"
)

// ErrInvalidToken is returned when the identity provider rejects a token
var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier resolves a bearer token to the identity it was issued for
type Verifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}

// idTokenVerifier is the part of the Firebase auth client used here
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier checks Firebase ID tokens locally against Google's
// published signing keys
type FirebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier creates a verifier for the configured project. Only the
// project ID is needed, no service account.
func NewFirebaseVerifier(ctx context.Context, cfg config.AuthConfig) (*FirebaseVerifier, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is not set")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

// Verify implements Verifier. Only a failure to fetch the signing keys is
// reported as an error; every other rejection is ErrInvalidToken.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if fbauth.IsCertificateFetchFailed(err) {
			return nil, fmt.Errorf("failed to fetch token signing keys: %w", err)
		}
		logrus.WithError(err).Debug("[DEBUG] 🔐 Token rejected")
		return nil, ErrInvalidToken
	}
	if decoded.UID == "" {
		return nil, ErrInvalidToken
	}

	identity := &model.Identity{
		SubjectID: decoded.UID,
		Name:      claim(decoded.Claims, "name"),
		Email:     claim(decoded.Claims, "email"),
	}
	if phone := claim(decoded.Claims, "phone_number"); phone != "" {
		identity.Phone = &phone
	}
	if picture := claim(decoded.Claims, "picture"); picture != "" {
		identity.ProfilePic = &picture
	}
	return identity, nil
}

func claim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}

// CachedVerifier remembers successful verifications for a bounded time so
// repeated requests with the same token skip the provider round trip
type CachedVerifier struct {
	inner Verifier
	cache *expirable.LRU[string, *model.Identity]
}

// NewCachedVerifier wraps inner with an expiring LRU of the given size and TTL
func NewCachedVerifier(inner Verifier, size int, ttl time.Duration) *CachedVerifier {
	if size <= 0 {
		size = 1000
	}
	return &CachedVerifier{
		inner: inner,
		cache: expirable.NewLRU[string, *model.Identity](size, nil, ttl),
	}
}

// Verify implements Verifier
func (v *CachedVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	key := tokenKey(token)

	if identity, ok := v.cache.Get(key); ok {
		return identity, nil
	}

	identity, err := v.inner.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	v.cache.Add(key, identity)
	logrus.WithField("uid", identity.SubjectID).Debug("[DEBUG] 🔐 Token verified and cached")
	return identity, nil
}

// tokenKey hashes the token so raw credentials never sit in memory as map keys
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
