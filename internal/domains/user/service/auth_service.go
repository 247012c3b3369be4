package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"coursestore-backend/internal/domains/user/model"
	"coursestore-backend/internal/domains/user/repository"
	"coursestore-backend/internal/infrastructure/email"
	"coursestore-backend/internal/infrastructure/queue"
	"coursestore-backend/internal/shared"
	"coursestore-backend/internal/shared/apperr"
	"coursestore-backend/internal/shared/utils"
	"coursestore-backend/pkg/cache"
	"coursestore-backend/pkg/jwt"
)

const (
	MaxFailedAttempts = 5
	LockoutDuration   = 15 * time.Minute
	AttemptWindow     = 15 * time.Minute

	magicTokenBytes = 32
)

type AuthConfig struct {
	MagicLinkTTL  time.Duration
	PublicBaseURL string
}

type authService struct {
	repo   repository.UserRepository
	cache  cache.Cache
	queue  queue.Enqueuer
	tokens *jwt.Manager
	cfg    AuthConfig
}

func NewAuthService(
	repo repository.UserRepository,
	c cache.Cache,
	q queue.Enqueuer,
	tokens *jwt.Manager,
	cfg AuthConfig,
) AuthServiceInterface {
	if cfg.MagicLinkTTL <= 0 {
		cfg.MagicLinkTTL = 15 * time.Minute
	}
	return &authService{repo: repo, cache: c, queue: q, tokens: tokens, cfg: cfg}
}

// -------------------------------------------------------------------
// ADMIN PASSWORD LOGIN
// -------------------------------------------------------------------

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	addr := utils.NormalizeEmail(req.Email)

	locked, err := s.cache.Exists(ctx, lockKey(addr))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read login lock")
	}
	if locked {
		return nil, model.ErrAccountLocked
	}

	u, err := s.repo.FindByEmail(ctx, addr)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	// Unknown email, non-admin and wrong password look the same to the caller.
	if u == nil || u.Role != model.RoleAdmin || u.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)) != nil {
		s.recordFailure(ctx, addr)
		return nil, model.ErrInvalidCredentials
	}

	if !u.IsActive() {
		return nil, model.ErrUserInactive
	}

	if err := s.cache.Delete(ctx, attemptKey(addr)); err != nil {
		log.Warn().Err(err).Msg("Failed to reset login attempts")
	}
	return s.issue(ctx, u)
}

func (s *authService) recordFailure(ctx context.Context, addr string) {
	attempts, err := s.cache.Increment(ctx, attemptKey(addr))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count login attempt")
		return
	}
	if attempts == 1 {
		if err := s.cache.Expire(ctx, attemptKey(addr), AttemptWindow); err != nil {
			log.Warn().Err(err).Msg("Failed to set attempt window")
		}
	}
	if attempts >= MaxFailedAttempts {
		if err := s.cache.Set(ctx, lockKey(addr), true, LockoutDuration); err != nil {
			log.Warn().Err(err).Msg("Failed to lock account")
			return
		}
		log.Warn().Str("email", addr).Int64("attempts", attempts).Msg("Login locked after repeated failures")
	}
}

// -------------------------------------------------------------------
// MAGIC LINK
// -------------------------------------------------------------------

// RequestMagicLink always succeeds for a well-formed email so the endpoint
// does not reveal which addresses have accounts.
func (s *authService) RequestMagicLink(ctx context.Context, req *model.MagicLinkRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	addr := utils.NormalizeEmail(req.Email)

	existing, err := s.repo.FindByEmail(ctx, addr)
	switch {
	case err == nil && !existing.IsActive():
		log.Info().Str("user_id", existing.ID.String()).Msg("Magic link skipped for inactive user")
		return nil
	case err != nil && !errors.Is(err, model.ErrUserNotFound):
		return err
	}

	token, err := newToken()
	if err != nil {
		return apperr.Internal(err)
	}

	if err := s.cache.Set(ctx, magicKey(token), addr, s.cfg.MagicLinkTTL); err != nil {
		return apperr.Internal(fmt.Errorf("store magic link: %w", err))
	}

	link := s.cfg.PublicBaseURL + "/auth/verify?token=" + url.QueryEscape(token)
	subject, html, err := email.RenderMagicLink(email.MagicLinkData{
		Link:      link,
		ExpiresIn: s.cfg.MagicLinkTTL.String(),
	})
	if err != nil {
		return apperr.Internal(err)
	}

	err = s.queue.Enqueue(ctx, shared.TypeSendEmail, shared.SendEmailPayload{
		To:       []string{addr},
		Subject:  subject,
		HTML:     html,
		Category: "magic_link",
	}, asynq.Queue(shared.QueueCritical), asynq.MaxRetry(3))
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *authService) VerifyMagicLink(ctx context.Context, req *model.VerifyMagicLinkRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var addr string
	found, err := s.cache.Take(ctx, magicKey(req.Token), &addr)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("read magic link: %w", err))
	}
	if !found || addr == "" {
		return nil, model.ErrInvalidToken
	}

	u, err := s.repo.ResolveOrCreateByEmail(ctx, addr, "")
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, model.ErrUserInactive
	}
	return s.issue(ctx, u)
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

func (s *authService) issue(ctx context.Context, u *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Email, string(u.Role))
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("generate access token: %w", err))
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("Failed to update last login")
	}

	return &model.AuthResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.tokens.AccessTTL()),
		User:        u,
	}, nil
}

func newToken() (string, error) {
	b := make([]byte, magicTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Only the hash of a magic token is stored.
func magicKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "magic_link:" + hex.EncodeToString(sum[:])
}

func attemptKey(addr string) string { return "failed_login:" + addr }
func lockKey(addr string) string    { return "login_locked:" + addr }
