package handlers

import (
	"errors"
	"net/http"

	"Weblog/internal/auth"
	"Weblog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles the register, login and logout pages.
type AuthHandler struct {
	sessions *auth.Store
	userSvc  *service.UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(sessions *auth.Store, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{sessions: sessions, userSvc: userSvc}
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.tmpl", gin.H{
		"Title":   "Register",
		"Session": auth.SessionFromContext(c),
	})
}

// Register handles the registration form submission. No session is
// established here; the user logs in separately.
func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, err := h.userSvc.Register(c.Request.Context(), username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.String(http.StatusBadRequest, "Username, email and password are required.")
		case errors.Is(err, service.ErrDuplicateCredential):
			c.String(http.StatusConflict, "Username or email already exists.")
		default:
			log.Error().Err(err).Msg("registration failed")
			c.String(http.StatusInternalServerError, "Error registering user.")
		}
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	h.renderLogin(c, "")
}

// Login handles the login form submission. An unknown username and a wrong
// password produce byte-identical responses so the form cannot be used to
// probe which usernames exist.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "" || password == "" {
		h.renderLogin(c, "Please provide a username and password.")
		return
	}

	user, err := h.userSvc.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.renderLogin(c, "Invalid username or password.")
			return
		}
		log.Error().Err(err).Msg("login failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	// Upgrade the visitor's existing anonymous session in place.
	sess := auth.SessionFromContext(c)
	if _, err := h.sessions.SetUser(c.Request.Context(), sess.ID, user.ID, user.Username); err != nil {
		log.Error().Err(err).Msg("session upgrade failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout destroys the server-side session. On success the cookie is cleared
// and the user lands on the login page. A destruction failure is swallowed:
// redirect home, cookie left alone.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := auth.SessionFromContext(c)
	if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		log.Error().Err(err).Msg("session destroy failed")
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) renderLogin(c *gin.Context, message string) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Title":   "Login",
		"Message": message,
		"Session": auth.SessionFromContext(c),
	})
}
