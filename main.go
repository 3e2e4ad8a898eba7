package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/beka-birhanu/labyrinth-duel/api"
	gameapi "github.com/beka-birhanu/labyrinth-duel/api/game"
	api_i "github.com/beka-birhanu/labyrinth-duel/api/i"
	"github.com/beka-birhanu/labyrinth-duel/api/identity"
	"github.com/beka-birhanu/labyrinth-duel/config"
	"github.com/beka-birhanu/labyrinth-duel/engine"
	"github.com/beka-birhanu/labyrinth-duel/infrastruture/lock"
	"github.com/beka-birhanu/labyrinth-duel/infrastruture/repo"
	"github.com/beka-birhanu/labyrinth-duel/infrastruture/store"
	"github.com/beka-birhanu/labyrinth-duel/infrastruture/token"
	"github.com/beka-birhanu/labyrinth-duel/service"
	"github.com/beka-birhanu/labyrinth-duel/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	appLogger      *log.Logger
	redisClient    *redis.Client
	mongoClient    *mongo.Client
	gameStore      i.GameStore
	matchArchive   i.MatchArchiver
	locker         i.Locker
	rules          *engine.Engine
	watchdog       *service.Watchdog
	lobby          *service.Lobby
	games          *service.GameService
	jwtTokenizer   i.Tokenizer
	authController api_i.Controller
	gameController api_i.Controller
	router         *api.Router
)

func newLogger(prefix string) *log.Logger {
	return log.New(os.Stdout, fmt.Sprintf("[%s] ", prefix), log.LstdFlags)
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort),
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Fatalf("%s[ERROR]%s Redis ping failed: %v", config.LogErrorColor, config.LogColorReset, err)
	}
	appLogger.Printf("%s[INFO]%s Connected to Redis", config.LogInfoColor, config.LogColorReset)
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Fatalf("%s[ERROR]%s Failed to connect to MongoDB: %v", config.LogErrorColor, config.LogColorReset, err)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Fatalf("%s[ERROR]%s MongoDB ping failed: %v", config.LogErrorColor, config.LogColorReset, err)
	}
	appLogger.Printf("%s[INFO]%s Connected to MongoDB", config.LogInfoColor, config.LogColorReset)
}

func initGameStore() {
	gameStore = store.New(redisClient, &store.Options{Logger: newLogger("STORE")})
	appLogger.Printf("%s[INFO]%s Game store initialized", config.LogInfoColor, config.LogColorReset)
}

func initMatchArchive() {
	matchArchive = repo.NewMatchRepo(mongoClient, config.Envs.DBName, "matches")
	appLogger.Printf("%s[INFO]%s Match archive initialized", config.LogInfoColor, config.LogColorReset)
}

func initLocker() {
	locker = lock.New(redisClient)
	appLogger.Printf("%s[INFO]%s Distributed locker initialized", config.LogInfoColor, config.LogColorReset)
}

func initServices(ctx context.Context) {
	rules = engine.New()
	watchdog = service.NewWatchdog(&service.WatchdogConfig{
		Ctx:      ctx,
		Store:    gameStore,
		Archiver: matchArchive,
		Engine:   rules,
		Logger:   newLogger("WATCHDOG"),
	})
	lobby = service.NewLobby(&service.LobbyConfig{
		Store:    gameStore,
		Locker:   locker,
		Engine:   rules,
		Watchdog: watchdog,
		Logger:   newLogger("LOBBY"),
	})
	games = service.NewGameService(&service.GameServiceConfig{
		Store:    gameStore,
		Archiver: matchArchive,
		Engine:   rules,
		Logger:   newLogger("GAME"),
	})
	if err := watchdog.Resume(); err != nil {
		appLogger.Fatalf("%s[ERROR]%s Resuming game watchers: %v", config.LogErrorColor, config.LogColorReset, err)
	}
	appLogger.Printf("%s[INFO]%s Game services initialized", config.LogInfoColor, config.LogColorReset)
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Printf("%s[INFO]%s JWT Tokenizer initialized", config.LogInfoColor, config.LogColorReset)
}

func initControllers() {
	authController = identity.NewIdentityServer(jwtTokenizer)
	gameController = gameapi.NewGameController(lobby, games)
	appLogger.Printf("%s[INFO]%s Controllers initialized", config.LogInfoColor, config.LogColorReset)
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, gameController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Printf("%s[INFO]%s Router initialized", config.LogInfoColor, config.LogColorReset)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gin.SetMode(config.Envs.GinMode)
	appLogger = newLogger("APP")

	connectCtx, connectCancel := context.WithTimeout(ctx, 60*time.Second)
	defer connectCancel()

	initRedis(connectCtx)
	defer func() {
		_ = redisClient.Close()
	}()

	initMongo(connectCtx)
	defer func() {
		_ = mongoClient.Disconnect(ctx)
	}()

	initGameStore()
	initMatchArchive()
	initLocker()
	initServices(ctx)
	initJWTTokenizer()
	initControllers()
	initRouter(jwtTokenizer)

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Fatalf("%s[ERROR]%s Starting server: %v", config.LogErrorColor, config.LogColorReset, err)
	}
}
