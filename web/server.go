// Package web exposes the data layer over HTTP. It stays thin: every
// decision is made by the services, the handlers only translate.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bobinette/inkwell/auth"
	"github.com/bobinette/inkwell/jwt"
	"github.com/bobinette/inkwell/log"
	"github.com/bobinette/inkwell/replica"
	"github.com/bobinette/inkwell/services"
	"github.com/bobinette/inkwell/syncer"
)

type Server struct {
	logger log.Logger

	store   *replica.Store
	engine  *syncer.Engine
	encoder *jwt.EncodeDecoder

	authService     *auth.Service
	sampleService   *services.SampleService
	workService     *services.WorkService
	ratingService   *services.RatingService
	userService     *services.UserService
	settingsService *services.SettingsService
}

func NewServer(
	logger log.Logger,
	store *replica.Store,
	engine *syncer.Engine,
	encoder *jwt.EncodeDecoder,
	authService *auth.Service,
) *Server {
	return &Server{
		logger:  logger,
		store:   store,
		engine:  engine,
		encoder: encoder,

		authService:     authService,
		sampleService:   services.NewSampleService(store, engine),
		workService:     services.NewWorkService(store, engine),
		ratingService:   services.NewRatingService(store, engine),
		userService:     services.NewUserService(store, engine),
		settingsService: services.NewSettingsService(store, engine),
	}
}

func (s *Server) Handler() http.Handler {
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	router.POST("/auth", s.handleAuth)
	router.GET("/data", s.handleData)
	router.POST("/users/:userID/samples", s.handleSamples)
	router.POST("/users/:userID/works", s.handleWorks)
	router.POST("/system", s.handleSystem)

	return router
}

// session resolves the caller from the bearer token. No token or a
// stale token means guest, not an error: guests can still read.
func (s *Server) session(c *gin.Context) services.Session {
	header := c.GetHeader("Authorization")
	if len(header) < 8 || header[:7] != "Bearer " {
		return services.Guest()
	}

	userID, err := s.encoder.Decode(header[7:])
	if err != nil {
		return services.Guest()
	}

	user, ok := s.store.User(userID)
	if !ok {
		return services.Guest()
	}
	return services.NewSession(user)
}
