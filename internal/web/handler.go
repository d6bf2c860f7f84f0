// File: internal/web/handler.go
package web

import (
	"html/template"
	"net/http"

	"docsign_web/internal/audit"
	"docsign_web/internal/auth"
	"docsign_web/internal/common"
	"docsign_web/internal/config"
	"docsign_web/internal/middleware"
	"docsign_web/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

const (
	actionSignUp = "signup"
	actionSignIn = "signin"
)

// Handler serves the server-rendered pages.
type Handler struct {
	auth   auth.Service
	audit  audit.Service
	cfg    *config.Config
	logger *zap.Logger
	pages  map[string]*template.Template
}

// NewHandler creates a new web handler.
func NewHandler(authService auth.Service, auditService audit.Service, cfg *config.Config, logger *zap.Logger) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Handler{
		auth:   authService,
		audit:  auditService,
		cfg:    cfg,
		logger: logger.Named("web"),
		pages:  pages,
	}, nil
}

// RegisterRoutes mounts the pages. The session loader and CSRF check run on
// every page route.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	pages := router.Group("/")
	pages.Use(
		middleware.LoadSession(h.auth, h.cfg, h.logger),
		middleware.CSRF(h.cfg, h.logger),
	)
	{
		pages.GET("/", h.home)
		pages.POST("/", h.homeSubmit)
		pages.GET("/signup", h.signUpPage)
		pages.POST("/signup", h.signUp)
		pages.GET("/login", h.loginPage)
		pages.POST("/login", h.login)
		pages.POST("/signout", h.signOut)
		pages.GET("/dashboard", middleware.RequireSession("/login"), h.dashboard)
	}
}

func (h *Handler) home(c *gin.Context) {
	h.render(c, http.StatusOK, pageHome, h.baseData(c, "DocSign - Test Auth"))
}

// homeSubmit handles the combined card: both buttons post here and the
// clicked one is sent as "action".
func (h *Handler) homeSubmit(c *gin.Context) {
	creds := h.credentials(c)
	data := h.baseData(c, "DocSign - Test Auth")
	data.Email = creds.Email

	var res auth.Result
	switch c.PostForm("action") {
	case actionSignUp:
		res = h.auth.SignUp(c.Request.Context(), creds)
	case actionSignIn:
		res = h.auth.SignIn(c.Request.Context(), creds)
	default:
		h.render(c, http.StatusBadRequest, pageHome, data)
		return
	}

	if res.Session != nil {
		session.SetCookie(c, h.cfg, res.Session.ID)
		setFlash(c, h.cfg, res.Message)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	data.Message = res.Message
	h.render(c, statusFor(res), pageHome, data)
}

func (h *Handler) signUpPage(c *gin.Context) {
	h.render(c, http.StatusOK, pageSignUp, h.baseData(c, "DocSign - Sign Up"))
}

func (h *Handler) signUp(c *gin.Context) {
	creds := h.credentials(c)
	res := h.auth.SignUp(c.Request.Context(), creds)
	if res.Session != nil {
		session.SetCookie(c, h.cfg, res.Session.ID)
		setFlash(c, h.cfg, res.Message)
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	data := h.baseData(c, "DocSign - Sign Up")
	data.Message = res.Message
	if !res.Success {
		data.Email = creds.Email
	}
	h.render(c, statusFor(res), pageSignUp, data)
}

func (h *Handler) loginPage(c *gin.Context) {
	if common.GetSessionFromContext(c) != nil {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, pageLogin, h.baseData(c, "DocSign - Sign In"))
}

func (h *Handler) login(c *gin.Context) {
	creds := h.credentials(c)
	res := h.auth.SignIn(c.Request.Context(), creds)
	if res.Success && res.Session != nil {
		session.SetCookie(c, h.cfg, res.Session.ID)
		setFlash(c, h.cfg, res.Message)
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	data := h.baseData(c, "DocSign - Sign In")
	data.Email = creds.Email
	data.Message = res.Message
	h.render(c, statusFor(res), pageLogin, data)
}

func (h *Handler) signOut(c *gin.Context) {
	id := common.GetSessionIDFromContext(c)
	if err := h.auth.SignOut(c.Request.Context(), id); err != nil {
		h.logger.Error("Sign out failed", zap.Error(err))
		setFlash(c, h.cfg, common.ErrorMessage("could not sign out, please try again"))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	session.ClearCookie(c, h.cfg)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) dashboard(c *gin.Context) {
	data := h.baseData(c, "DocSign - Dashboard")
	data.Wide = true
	if h.audit != nil {
		for _, e := range h.audit.Recent(c.Request.Context(), data.Session.Email) {
			data.Activity = append(data.Activity, audit.ToEventResponse(e))
		}
	}
	h.render(c, http.StatusOK, pageDashboard, data)
}

func (h *Handler) baseData(c *gin.Context, title string) *pageData {
	return &pageData{
		Title:     title,
		CSRFToken: common.GetCSRFTokenFromContext(c),
		Session:   common.GetSessionFromContext(c),
		Message:   popFlash(c, h.cfg),
	}
}

// credentials reads the form. Values go to the provider untouched.
func (h *Handler) credentials(c *gin.Context) auth.Credentials {
	return auth.Credentials{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		FormKey:  common.GetCSRFTokenFromContext(c),
	}
}

func (h *Handler) render(c *gin.Context, status int, page string, data *pageData) {
	c.Render(status, render.HTML{
		Template: h.pages[page],
		Name:     "layout",
		Data:     data,
	})
}

func statusFor(res auth.Result) int {
	if res.Success {
		return http.StatusOK
	}
	if res.Err != nil {
		return http.StatusUnprocessableEntity
	}
	return http.StatusServiceUnavailable
}
