// Package services contains the user-level flows: authentication,
// profile maintenance and money movement. Each flow runs through the
// gateway and writes its own response payload into the resource cache
// before reporting success, so the caller always observes the effect
// of a mutation it has been told succeeded.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"simspay/internal/api"
	"simspay/internal/cache"
	"simspay/internal/logging"
	"simspay/internal/models"
	"simspay/internal/session"
)

// MaxAvatarBytes is the client-side cap on profile image uploads.
const MaxAvatarBytes = 100 * 1024

var ErrImageTooLarge = errors.New("profile image exceeds 100 KB")

type AccountService struct {
	gw      *api.Gateway
	session *session.Manager
	cache   *cache.Cache
	log     logging.Logger
}

func NewAccountService(gw *api.Gateway, sess *session.Manager, c *cache.Cache, log logging.Logger) *AccountService {
	return &AccountService{gw: gw, session: sess, cache: c, log: log}
}

// Login exchanges credentials for a bearer token and starts a session.
// It does not populate any caches; screens fetch what they need after
// navigation, so a failed fetch cannot corrupt the fresh session.
func (s *AccountService) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	res, err := s.gw.Request(ctx, http.MethodPost, "/login", body)
	if err != nil {
		return err
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if payload.Token == "" {
		return fmt.Errorf("login response carried no token")
	}

	return s.session.Login(ctx, payload.Token)
}

// Register creates a new account. The user still has to log in
// afterwards; registration does not start a session.
func (s *AccountService) Register(ctx context.Context, email, firstName, lastName, password string) error {
	body := map[string]string{
		"email":      email,
		"first_name": firstName,
		"last_name":  lastName,
		"password":   password,
	}
	_, err := s.gw.Request(ctx, http.MethodPost, "/registration", body)
	return err
}

// Logout ends the session. Cache invalidation and paginator reset run
// via the session's logout hooks.
func (s *AccountService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// UpdateProfile changes the user's name. The returned profile is
// written through to the cache before the call reports success.
func (s *AccountService) UpdateProfile(ctx context.Context, firstName, lastName string) (models.Profile, error) {
	body := map[string]string{"first_name": firstName, "last_name": lastName}
	res, err := s.gw.Request(ctx, http.MethodPut, "/profile/update", body)
	if err != nil {
		return models.Profile{}, err
	}
	return s.ingestProfile(res)
}

// UploadAvatar sends a new profile image as a multipart upload. The
// 100 KB limit is enforced here, before any bytes leave the client.
func (s *AccountService) UploadAvatar(ctx context.Context, filename string, data []byte) (models.Profile, error) {
	if len(data) > MaxAvatarBytes {
		return models.Profile{}, ErrImageTooLarge
	}

	res, err := s.gw.Upload(ctx, http.MethodPut, "/profile/image", "file", filename, data)
	if err != nil {
		return models.Profile{}, err
	}
	return s.ingestProfile(res)
}

func (s *AccountService) ingestProfile(res api.Result) (models.Profile, error) {
	var p models.Profile
	if err := json.Unmarshal(res.Data, &p); err != nil {
		return models.Profile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	s.cache.ApplyProfile(p, res.Generation)
	return p, nil
}
