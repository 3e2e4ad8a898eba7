// Package gameapi exposes the lobby and in-game commands over HTTP.
package gameapi

import (
	"errors"
	"net/http"

	"github.com/beka-birhanu/labyrinth-duel/api/identity"
	dmn "github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/beka-birhanu/labyrinth-duel/engine"
	"github.com/beka-birhanu/labyrinth-duel/infrastruture/store"
	"github.com/beka-birhanu/labyrinth-duel/service"
	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 20

// GameController wires the lobby and game services into HTTP routes.
type GameController struct {
	lobby *service.Lobby
	games *service.GameService
}

// NewGameController initializes a GameController.
func NewGameController(lobby *service.Lobby, games *service.GameService) *GameController {
	return &GameController{
		lobby: lobby,
		games: games,
	}
}

// RegisterPublic registers public routes.
func (gc *GameController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (gc *GameController) RegisterProtected(route *gin.RouterGroup) {
	games := route.Group("/games")
	{
		games.POST("/", gc.join)
		games.GET("/:ID", gc.snapshot)
		games.POST("/:ID/maze", gc.submitMaze)
		games.POST("/:ID/move", gc.move)
		games.POST("/:ID/bet", gc.bet)
		games.POST("/:ID/declare", gc.declare)
		games.POST("/:ID/offers/:offerID", gc.respondToOffer)
		games.POST("/:ID/nudge", gc.nudge)
		games.GET("/:ID/chat", gc.chatHistory)
		games.POST("/:ID/chat", gc.sendChat)
	}
	route.GET("/history", gc.history)
}

// writeError maps rules and store failures onto HTTP statuses.
func writeError(ctx *gin.Context, err error) {
	var validation *dmn.ValidationError
	var illegal *dmn.IllegalActionError
	switch {
	case errors.As(err, &validation), errors.As(err, &illegal):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	case errors.Is(err, store.ErrConflict):
		ctx.JSON(http.StatusConflict, gin.H{"error": "please retry"})
	case errors.Is(err, engine.ErrNotYourTurn),
		errors.Is(err, engine.ErrNotInGame),
		errors.Is(err, engine.ErrWrongStatus),
		errors.Is(err, engine.ErrWrongPhase),
		errors.Is(err, engine.ErrInBattle),
		errors.Is(err, engine.ErrNoBattle),
		errors.Is(err, engine.ErrAlreadyDeclared),
		errors.Is(err, engine.ErrAlreadyAllied),
		errors.Is(err, engine.ErrOfferNotFound),
		errors.Is(err, engine.ErrBetOutOfRange),
		errors.Is(err, engine.ErrUnknownDirection),
		errors.Is(err, service.ErrChatBlocked):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
	}
}

// join seats the caller via the lobby.
func (gc *GameController) join(ctx *gin.Context) {
	var request JoinRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := gc.lobby.JoinOrCreate(ctx, identity.CallerID(ctx),
		dmn.GameMode(request.Mode), dmn.GameType(request.GameType))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, g)
}

// snapshot returns the full game document; rejoining clients re-derive
// their view from it.
func (gc *GameController) snapshot(ctx *gin.Context) {
	g, err := gc.games.Snapshot(ctx, ctx.Params.ByName("ID"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	if !g.HasPlayer(identity.CallerID(ctx)) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	ctx.JSON(http.StatusOK, g)
}

// submitMaze accepts the caller's authored maze.
func (gc *GameController) submitMaze(ctx *gin.Context) {
	var request MazeRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := gc.games.SubmitMaze(ctx, ctx.Params.ByName("ID"), identity.CallerID(ctx), request.ToDomain())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, g)
}

// move applies one standard-mode step.
func (gc *GameController) move(ctx *gin.Context) {
	var request MoveRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := gc.games.Move(ctx, ctx.Params.ByName("ID"), identity.CallerID(ctx), dmn.Direction(request.Direction))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, g)
}

// bet submits a secret battle bet.
func (gc *GameController) bet(ctx *gin.Context) {
	var request BetRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := gc.games.PlaceBet(ctx, ctx.Params.ByName("ID"), identity.CallerID(ctx), request.Bet)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, g)
}

// declare locks in the caller's action for the round.
func (gc *GameController) declare(ctx *gin.Context) {
	var request DeclareRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := gc.games.Declare(ctx, ctx.Params.ByName("ID"), identity.CallerID(ctx), request.ToDomain())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, g)
}

// respondToOffer settles a pending negotiation offer.
func (gc *GameController) respondToOffer(ctx *gin.Context) {
	var request OfferResponseRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := gc.games.RespondToOffer(ctx, ctx.Params.ByName("ID"), identity.CallerID(ctx),
		ctx.Params.ByName("offerID"), *request.Accept)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, g)
}

// nudge lets an impatient client push an expired timer forward.
func (gc *GameController) nudge(ctx *gin.Context) {
	g, err := gc.games.Nudge(ctx, ctx.Params.ByName("ID"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, g)
}

// sendChat posts a message to the game's chat stream.
func (gc *GameController) sendChat(ctx *gin.Context) {
	var request ChatRequest
	if err := ctx.ShouldBind(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := gc.games.SendChat(ctx, ctx.Params.ByName("ID"), identity.CallerID(ctx), request.Text); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusCreated)
}

// chatHistory returns recent chat, oldest first.
func (gc *GameController) chatHistory(ctx *gin.Context) {
	msgs, err := gc.games.ChatHistory(ctx, ctx.Params.ByName("ID"), defaultHistoryLimit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, msgs)
}

// history lists the caller's archived matches.
func (gc *GameController) history(ctx *gin.Context) {
	records, err := gc.games.History(ctx, identity.CallerID(ctx), defaultHistoryLimit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}
