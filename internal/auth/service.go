package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"docsign_web/internal/audit"
	"docsign_web/internal/common"
	"docsign_web/internal/config"
	"docsign_web/internal/platform/crypto"
	"docsign_web/internal/platform/requestctx"
	"docsign_web/internal/session"
	"docsign_web/internal/shared"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MsgSessionUnavailable is shown when the provider accepted the sign-in but
// the session could not be stored locally.
const MsgSessionUnavailable = "could not start a session, please try again"

// Service runs the auth actions against the provider and keeps local sessions.
type Service interface {
	SignUp(ctx context.Context, creds Credentials) Result
	SignIn(ctx context.Context, creds Credentials) Result
	SignOut(ctx context.Context, sessionID string) error
	CurrentSession(ctx context.Context, sessionID string) (*shared.Session, error)
	GetUser(ctx context.Context, sessionID string) (*shared.ProviderUser, error)
	ProviderName() string
}

// ServiceImplementation is the default Service.
type ServiceImplementation struct {
	provider shared.AuthProvider
	store    shared.SessionStore
	audit    audit.Service
	cfg      *config.Config
	logger   *zap.Logger

	inflight singleflight.Group
	now      func() time.Time
}

// NewService creates a new auth service.
func NewService(
	provider shared.AuthProvider,
	store shared.SessionStore,
	auditService audit.Service,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		provider: provider,
		store:    store,
		audit:    auditService,
		cfg:      cfg,
		logger:   logger.Named("auth"),
		now:      time.Now,
	}
}

func (s *ServiceImplementation) ProviderName() string { return s.provider.Name() }

// SignUp creates the account. The user is signed in as well when the
// provider hands back a session straight away.
func (s *ServiceImplementation) SignUp(ctx context.Context, creds Credentials) Result {
	return s.guard(ctx, audit.ActionSignUp, creds, func(ctx context.Context) Result {
		ps, err := s.provider.SignUp(ctx, creds.Email, creds.Password)
		if err != nil {
			return s.failure(ctx, audit.ActionSignUp, creds.Email, err)
		}
		res := Result{Success: true, Message: common.MsgSignUpSuccess}
		if ps != nil {
			sess, err := s.startSession(ctx, ps, creds.Email)
			if err != nil {
				s.logger.Error("Failed to store session after sign-up", zap.Error(err))
			} else {
				res.Session = sess
			}
		}
		s.record(ctx, audit.ActionSignUp, creds.Email, audit.OutcomeSuccess, "")
		return res
	})
}

// SignIn checks the password with the provider and starts a local session.
func (s *ServiceImplementation) SignIn(ctx context.Context, creds Credentials) Result {
	return s.guard(ctx, audit.ActionSignIn, creds, func(ctx context.Context) Result {
		ps, err := s.provider.SignInWithPassword(ctx, creds.Email, creds.Password)
		if err != nil {
			return s.failure(ctx, audit.ActionSignIn, creds.Email, err)
		}
		sess, err := s.startSession(ctx, ps, creds.Email)
		if err != nil {
			s.logger.Error("Failed to store session after sign-in", zap.Error(err))
			if signOutErr := s.provider.SignOut(ctx, ps); signOutErr != nil {
				s.logger.Warn("Failed to revoke provider session after local failure", zap.Error(signOutErr))
			}
			s.record(ctx, audit.ActionSignIn, creds.Email, audit.OutcomeFailure, MsgSessionUnavailable)
			return Result{Message: common.ErrorMessage(MsgSessionUnavailable)}
		}
		s.record(ctx, audit.ActionSignIn, creds.Email, audit.OutcomeSuccess, "")
		return Result{Success: true, Message: common.MsgSignInSuccess, Session: sess}
	})
}

// SignOut ends the session at the provider and locally. A provider failure
// is logged only; the local session is removed regardless.
func (s *ServiceImplementation) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}

	if err := s.provider.SignOut(ctx, sess.ProviderSession()); err != nil {
		s.logger.Warn("Provider sign-out failed, removing local session anyway",
			zap.Error(err), zap.String("userID", sess.UserID))
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.record(ctx, audit.ActionSignOut, sess.Email, audit.OutcomeSuccess, "")
	return nil
}

// CurrentSession resolves a session id to a live session. Expired access
// tokens are refreshed when the provider can; otherwise the session ends.
func (s *ServiceImplementation) CurrentSession(ctx context.Context, sessionID string) (*shared.Session, error) {
	if sessionID == "" {
		return nil, shared.ErrSessionNotFound
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Expired(sess.AccessToken, sess.ExpiresAt, s.now()) {
		return sess, nil
	}

	ps, err := s.provider.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		if !errors.Is(err, shared.ErrRefreshUnsupported) {
			s.logger.Info("Session refresh failed", zap.Error(err), zap.String("userID", sess.UserID))
		}
		if delErr := s.store.Delete(ctx, sessionID); delErr != nil {
			s.logger.Warn("Failed to drop expired session", zap.Error(delErr))
		}
		return nil, shared.ErrSessionNotFound
	}

	sess.AccessToken = ps.AccessToken
	sess.RefreshToken = ps.RefreshToken
	sess.ExpiresAt = ps.ExpiresAt
	if ps.User.Email != "" {
		sess.Email = ps.User.Email
	}
	if err := s.store.Save(ctx, sess, s.remainingTTL(sess)); err != nil {
		return nil, fmt.Errorf("save refreshed session: %w", err)
	}
	s.logger.Debug("Session refreshed", zap.String("userID", sess.UserID))
	return sess, nil
}

// GetUser asks the provider who the session's access token belongs to.
func (s *ServiceImplementation) GetUser(ctx context.Context, sessionID string) (*shared.ProviderUser, error) {
	sess, err := s.CurrentSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.provider.GetUser(ctx, sess.AccessToken)
}

func (s *ServiceImplementation) startSession(ctx context.Context, ps *shared.ProviderSession, email string) (*shared.Session, error) {
	id, err := crypto.NewToken()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	if ps.User.Email != "" {
		email = ps.User.Email
	}
	sess := &shared.Session{
		ID:           id,
		Provider:     s.provider.Name(),
		UserID:       ps.User.ID,
		Email:        email,
		AccessToken:  ps.AccessToken,
		RefreshToken: ps.RefreshToken,
		ExpiresAt:    ps.ExpiresAt,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Save(ctx, sess, s.cfg.SessionTTL); err != nil {
		return nil, err
	}
	return sess, nil
}

// remainingTTL keeps a refreshed session bound to its original lifetime.
func (s *ServiceImplementation) remainingTTL(sess *shared.Session) time.Duration {
	ttl := sess.CreatedAt.Add(s.cfg.SessionTTL).Sub(s.now())
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

// guard collapses duplicate submissions of the same form into one provider call.
// The shared call runs detached from the first caller's cancellation since
// joined callers wait on the same result.
func (s *ServiceImplementation) guard(ctx context.Context, action audit.Action, creds Credentials, fn func(ctx context.Context) Result) Result {
	if creds.FormKey == "" {
		return fn(ctx)
	}
	detached := context.WithoutCancel(ctx)
	v, _, dup := s.inflight.Do(guardKey(action, creds), func() (interface{}, error) {
		return fn(detached), nil
	})
	if dup {
		s.logger.Debug("Duplicate submission joined in-flight request",
			zap.String("action", string(action)),
			zap.String("requestID", requestctx.RequestIDFromContext(ctx)),
		)
	}
	return v.(Result)
}

func guardKey(action audit.Action, creds Credentials) string {
	sum := sha256.Sum256([]byte(creds.Email + "\x00" + creds.Password))
	return string(action) + "|" + creds.FormKey + "|" + hex.EncodeToString(sum[:])
}

func (s *ServiceImplementation) failure(ctx context.Context, action audit.Action, email string, err error) Result {
	msg := shared.ProviderMessage(err)
	s.logger.Info("Auth action rejected by provider",
		zap.String("action", string(action)),
		zap.String("message", msg),
		zap.String("requestID", requestctx.RequestIDFromContext(ctx)),
	)
	s.record(ctx, action, email, audit.OutcomeFailure, msg)
	return Result{Message: common.ErrorMessage(msg), Err: err}
}

func (s *ServiceImplementation) record(ctx context.Context, action audit.Action, email string, outcome audit.Outcome, msg string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, audit.Event{
		Email:     email,
		Action:    action,
		Outcome:   outcome,
		Provider:  s.provider.Name(),
		Message:   msg,
		RequestID: requestctx.RequestIDFromContext(ctx),
	})
}
