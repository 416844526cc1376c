package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CookieName is the session cookie. HTTP-only, not Secure, 24h max age.
const CookieName = "session_id"

const contextKeySession = "session"

// SessionFromContext returns the session placed by Sessions. The zero
// Session (anonymous, empty id) is returned when none was established.
func SessionFromContext(c *gin.Context) Session {
	v, ok := c.Get(contextKeySession)
	if !ok {
		return Session{}
	}
	sess, ok := v.(Session)
	if !ok {
		return Session{}
	}
	return sess
}

// Sessions returns middleware that materializes a session for every visitor:
// a request without a valid session cookie gets a fresh anonymous record and
// the cookie set. Login later upgrades this same record in place.
func Sessions(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CookieName)
		if err == nil && id != "" {
			sess, err := store.Get(c.Request.Context(), id)
			if err == nil {
				c.Set(contextKeySession, sess)
				c.Next()
				return
			}
			if !errors.Is(err, ErrNoSession) {
				log.Error().Err(err).Msg("session lookup failed")
				c.String(http.StatusInternalServerError, "Server error")
				c.Abort()
				return
			}
		}
		sess, err := store.Create(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Msg("session create failed")
			c.String(http.StatusInternalServerError, "Server error")
			c.Abort()
			return
		}
		c.SetCookie(CookieName, sess.ID, int(store.TTL().Seconds()), "/", "", false, true)
		c.Set(contextKeySession, sess)
		c.Next()
	}
}

// RequireLogin guards protected routes. Anonymous visitors are redirected to
// the login page; the wrapped handler is never invoked for them.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFromContext(c).Authenticated() {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
