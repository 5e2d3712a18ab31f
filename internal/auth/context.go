package auth

import "github.com/gin-gonic/gin"

const (
	subjectKey = "authSubject"
	emailKey   = "authEmail"
)

// SetIdentity stores the verified token's subject and email in the Gin context.
func SetIdentity(c *gin.Context, claims Claims) {
	if sub, err := claims.GetSubject(); err == nil {
		c.Set(subjectKey, sub)
	}
	if email, ok := claims["email"].(string); ok {
		c.Set(emailKey, email)
	}
}

// GetSubject returns the authenticated subject or empty string.
func GetSubject(c *gin.Context) string {
	return c.GetString(subjectKey)
}

// GetEmail returns the authenticated user's email or empty string.
func GetEmail(c *gin.Context) string {
	return c.GetString(emailKey)
}
