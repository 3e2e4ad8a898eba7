package identity

import (
	"net/http"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionLifetime = 24 * time.Hour

// IdentityServer issues guest sessions. Players are anonymous; a session is
// a fresh opaque id wrapped in a signed token the other endpoints trust.
type IdentityServer struct {
	tokenizer i.Tokenizer
}

// NewIdentityServer creates a new IdentityServer.
func NewIdentityServer(ts i.Tokenizer) *IdentityServer {
	return &IdentityServer{
		tokenizer: ts,
	}
}

// RegisterPublic registers public routes.
func (c *IdentityServer) RegisterPublic(route *gin.RouterGroup) {
	session := route.Group("/session")
	{
		session.POST("/", c.newSession)
	}
}

// RegisterProtected registers privileged routes.
func (c *IdentityServer) RegisterProtected(route *gin.RouterGroup) {
}

// newSession mints a guest player id and its bearer token.
func (c *IdentityServer) newSession(ctx *gin.Context) {
	playerID := uuid.NewString()
	token, err := c.tokenizer.Generate(map[string]interface{}{claimPlayerID: playerID}, sessionLifetime)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	response := &SessionResponse{
		PlayerID: playerID,
		Token:    token,
	}
	ctx.JSON(http.StatusCreated, response)
}
