package firebase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"docsign_web/internal/config"
	"docsign_web/internal/shared"
)

// Name is the provider identifier stored on sessions and audit events.
const Name = "firebase"

// AdminClient is the subset of the Admin SDK auth client we call.
type AdminClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseService implements shared.AuthProvider with the Firebase Admin SDK
// for account management and the Identity Toolkit API for password sign-in.
type FirebaseService struct {
	authClient AdminClient
	toolkit    *identitytoolkit.RelyingpartyService
	logger     *zap.Logger
	now        func() time.Time
}

// NewFirebaseService initializes the Firebase Admin SDK and the Identity Toolkit client.
func NewFirebaseService(cfg *config.Config, logger *zap.Logger) (*FirebaseService, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebase.NewApp(context.Background(), conf, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	toolkit, err := identitytoolkit.NewService(context.Background(), option.WithAPIKey(cfg.FirebaseWebAPIKey))
	if err != nil {
		logger.Error("Failed to create Identity Toolkit client", zap.Error(err))
		return nil, fmt.Errorf("error creating identity toolkit client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return NewFirebaseServiceWithClients(authClient, toolkit, logger), nil
}

// NewFirebaseServiceWithClients wires already constructed clients.
func NewFirebaseServiceWithClients(authClient AdminClient, toolkit *identitytoolkit.Service, logger *zap.Logger) *FirebaseService {
	return &FirebaseService{
		authClient: authClient,
		toolkit:    toolkit.Relyingparty,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *FirebaseService) Name() string { return Name }

// SignUp creates the account. Firebase does not hand out a session for
// admin-created users, so the caller always sees the confirmation path.
func (s *FirebaseService) SignUp(ctx context.Context, email, password string) (*shared.ProviderSession, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := s.authClient.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			s.logger.Info("Sign-up for an existing Firebase account", zap.String("email", email))
		}
		return nil, s.wrap("sign_up", err)
	}
	s.logger.Info("Firebase user created", zap.String("uid", record.UID))
	return nil, nil
}

func (s *FirebaseService) SignInWithPassword(ctx context.Context, email, password string) (*shared.ProviderSession, error) {
	req := &identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}
	resp, err := s.toolkit.VerifyPassword(req).Context(ctx).Do()
	if err != nil {
		return nil, s.wrap("sign_in", err)
	}
	return &shared.ProviderSession{
		User:         shared.ProviderUser{ID: resp.LocalId, Email: resp.Email},
		AccessToken:  resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    s.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// SignOut revokes every refresh token of the user, which is the only sign-out Firebase offers.
func (s *FirebaseService) SignOut(ctx context.Context, session *shared.ProviderSession) error {
	if session == nil || session.User.ID == "" {
		return nil
	}
	if err := s.authClient.RevokeRefreshTokens(ctx, session.User.ID); err != nil {
		s.logger.Error("Failed to revoke refresh tokens", zap.Error(err), zap.String("uid", session.User.ID))
		return s.wrap("sign_out", err)
	}
	s.logger.Info("Successfully revoked refresh tokens for user", zap.String("uid", session.User.ID))
	return nil
}

// GetUser verifies a Firebase ID token and returns the user it names.
func (s *FirebaseService) GetUser(ctx context.Context, idToken string) (*shared.ProviderUser, error) {
	if idToken == "" {
		return nil, s.wrap("get_user", errors.New("ID token must not be empty"))
	}
	token, err := s.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Warn("Firebase ID token verification failed", zap.Error(err))
		return nil, s.wrap("get_user", err)
	}
	u := &shared.ProviderUser{ID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		u.Email = email
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		u.EmailVerified = verified
	}
	return u, nil
}

func (s *FirebaseService) Refresh(ctx context.Context, refreshToken string) (*shared.ProviderSession, error) {
	return nil, shared.ErrRefreshUnsupported
}

func (s *FirebaseService) wrap(op string, err error) error {
	return &shared.ProviderError{Provider: Name, Op: op, Message: message(err), Err: err}
}

// message prefers the API's own message over the client library's formatting.
func message(err error) string {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	return err.Error()
}
