package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/labyrinth-duel/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextPlayerID is the key used to store the caller's player id in the Gin context.
	ContextPlayerID = "playerID"

	claimPlayerID = "playerId"
)

func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Retrieve the access token from the Authorization header.
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Status(http.StatusUnauthorized) // No token found in the header.
			c.Abort()
			return
		}

		// Split the "Bearer" prefix from the token.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Status(http.StatusUnauthorized) // Malformed Authorization header.
			c.Abort()
			return
		}

		claims, err := ts.Decode(parts[1])
		if err != nil {
			c.Status(http.StatusUnauthorized)
			c.Abort()
			return
		}

		playerID, ok := claims[claimPlayerID].(string)
		if !ok || playerID == "" {
			c.Status(http.StatusUnauthorized)
			c.Abort()
			return
		}

		c.Set(ContextPlayerID, playerID)
		c.Next()
	}
}

// CallerID extracts the authenticated player id from the request context.
func CallerID(c *gin.Context) string {
	return c.GetString(ContextPlayerID)
}
