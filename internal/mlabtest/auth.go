package mlabtest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Plabrum/managerlab-sub002/internal/auth"
)

// sessionCookie must match what the client sends; see api.SessionCookie.
const sessionCookie = "mlab_session"

// generateToken signs a session token for the seeded user. HS256 with a
// per-server secret; the stub plays the backend, so unlike the client it
// both issues and verifies.
func (s *Server) generateToken(ttl time.Duration) (string, error) {
	now := time.Now()
	claims := auth.Claims{
		UserID: s.user.ID,
		TeamID: s.user.TeamID,
		Email:  s.user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "mlabtest",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// SessionToken mints a valid session token directly, for tests that dial
// the WebSocket without walking the sign-in flow.
func (s *Server) SessionToken() string {
	token, err := s.generateToken(time.Hour)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) parseToken(tokenString string) (*auth.Claims, error) {
	claims := &auth.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(s.jwtSecret), nil
		},
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Server) setSessionCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
}

func (s *Server) issueSession(c *gin.Context) {
	token, err := s.generateToken(24 * time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign in failed"})
		return
	}
	s.setSessionCookie(c, token, 24*60*60)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSignIn(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// One generic failure for unknown email and wrong password both.
	if req.Email != s.User().Email {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword(s.passHash, []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	s.issueSession(c)
}

func (s *Server) handleVerify(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Token != SeedMagicToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired link"})
		return
	}
	s.issueSession(c)
}

// handleExpire clears the session the way the real backend does: an
// immediately-expired cookie.
func (s *Server) handleExpire(c *gin.Context) {
	s.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireSession guards every authenticated route. The session travels as
// a cookie, not a bearer header; the browser (and this client) attach it
// automatically.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			return
		}
		claims, err := s.parseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, s.User())
}
