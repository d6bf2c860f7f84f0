// File: internal/auth/handler.go
package auth

import (
	"errors"

	"docsign_web/internal/common"
	"docsign_web/internal/config"
	"docsign_web/internal/session"
	"docsign_web/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets API clients mark retries of one submission.
// Without it, duplicates are recognised per client address.
const IdempotencyKeyHeader = "Idempotency-Key"

// Handler serves the JSON auth API.
type Handler struct {
	service Service
	cfg     *config.Config
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.signUp)
		authGroup.POST("/signin", h.signIn)
		authGroup.POST("/signout", h.signOut)
		authGroup.GET("/session", h.currentSession)
		authGroup.GET("/user", h.currentUser)
	}
}

func (h *Handler) signUp(c *gin.Context) {
	req, ok := h.bindCredentials(c, "Sign up")
	if !ok {
		return
	}

	res := h.service.SignUp(c.Request.Context(), h.credentials(c, req))
	if !res.Success {
		h.respondFailure(c, res)
		return
	}

	data := gin.H{"confirmation_required": res.Session == nil}
	if res.Session != nil {
		session.SetCookie(c, h.cfg, res.Session.ID)
		data["session"] = ToSessionResponse(res.Session)
	}
	common.RespondCreated(c, res.Message, data)
}

func (h *Handler) signIn(c *gin.Context) {
	req, ok := h.bindCredentials(c, "Sign in")
	if !ok {
		return
	}

	res := h.service.SignIn(c.Request.Context(), h.credentials(c, req))
	if !res.Success {
		h.respondFailure(c, res)
		return
	}

	session.SetCookie(c, h.cfg, res.Session.ID)
	common.RespondOK(c, res.Message, gin.H{"session": ToSessionResponse(res.Session)})
}

func (h *Handler) signOut(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), session.CookieValue(c, h.cfg)); err != nil {
		h.logger.Error("Sign out failed", zap.Error(err))
		common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails("Could not sign out, please try again."))
		return
	}
	session.ClearCookie(c, h.cfg)
	common.RespondOK(c, "Signed out.", nil)
}

func (h *Handler) currentSession(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	common.RespondOK(c, "", gin.H{"session": ToSessionResponse(sess)})
}

func (h *Handler) currentUser(c *gin.Context) {
	u, err := h.service.GetUser(c.Request.Context(), session.CookieValue(c, h.cfg))
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			session.ClearCookie(c, h.cfg)
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Not signed in."))
			return
		}
		var pe *shared.ProviderError
		if errors.As(err, &pe) {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails(pe.Message))
			return
		}
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", gin.H{"user": UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
	}})
}

func (h *Handler) loadSession(c *gin.Context) (*shared.Session, bool) {
	sess, err := h.service.CurrentSession(c.Request.Context(), session.CookieValue(c, h.cfg))
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			session.ClearCookie(c, h.cfg)
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Not signed in."))
			return nil, false
		}
		common.RespondWithError(c, err)
		return nil, false
	}
	return sess, true
}

// credentials keys the duplicate-submission guard on the client's
// idempotency key, falling back to its address.
func (h *Handler) credentials(c *gin.Context, req *CredentialsRequest) Credentials {
	key := c.GetHeader(IdempotencyKeyHeader)
	if key == "" {
		key = "ip:" + c.ClientIP()
	}
	return Credentials{Email: req.Email, Password: req.Password, FormKey: key}
}

func (h *Handler) bindCredentials(c *gin.Context, action string) (*CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(action+": Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return nil, false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return nil, false
	}
	return &req, true
}

func (h *Handler) respondFailure(c *gin.Context, res Result) {
	var pe *shared.ProviderError
	if errors.As(res.Err, &pe) {
		common.RespondWithError(c, common.ErrAuthProvider.WithDetails(res.Message))
		return
	}
	common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails(res.Message))
}
