package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// CORS lets any origin call the API. Writes are authorized by the token in
// the body, never by cookies, so there is no credentialed access to restrict.
func CORS() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	config.ExposeHeaders = []string{"X-Request-ID"}
	return cors.New(config)
}

// SecureHeaders sets browser security headers on the rendered pages.
func SecureHeaders(isProduction bool) gin.HandlerFunc {
	config := secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data:; object-src 'none'",
		// TLS is terminated in front of the server.
		IsDevelopment: !isProduction,
	}
	if isProduction {
		config.STSSeconds = 31536000
		config.STSIncludeSubdomains = true
	}
	return secure.New(config)
}
