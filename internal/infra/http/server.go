package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cakeshop/internal/config"
	"cakeshop/internal/domain"
	"cakeshop/internal/infra/auth/oidc"
	"cakeshop/internal/infra/kv"
	"cakeshop/internal/infra/ratelimit"
	"cakeshop/internal/infra/store"
	"cakeshop/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (domain.Principal, error)
}

type Server struct {
	cfg config.Config
	r   *gin.Engine
	log *zap.Logger

	catalog     *usecase.Catalog
	suggestions *usecase.Suggestions

	authenticator Authenticator
	authInitErr   error

	rateLimiter          domain.RateLimiter
	rateLimitRequests    int
	rateLimitWindow      time.Duration
	rateLimitWithSubject bool
	rateLimitFailClosed  bool

	requestTimeout time.Duration
	storeMode      string
}

func NewServer(cfg config.Config, backend kv.Store, logger *zap.Logger) *Server {
	products := store.NewProductStore(backend)
	suggestions := store.NewSuggestionStore(backend)
	storeMode := "memory"
	if cfg.RedisAddr != "" {
		storeMode = "redis"
	}
	return NewServerWithDeps(cfg, ServerDeps{
		Catalog:     usecase.NewCatalog(products),
		Suggestions: usecase.NewSuggestions(suggestions),
		Logger:      logger,
		StoreMode:   storeMode,
	})
}

type ServerDeps struct {
	Catalog       *usecase.Catalog
	Suggestions   *usecase.Suggestions
	Authenticator Authenticator
	RateLimiter   domain.RateLimiter
	Logger        *zap.Logger
	StoreMode     string
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:           cfg,
		r:             r,
		log:           deps.Logger,
		catalog:       deps.Catalog,
		suggestions:   deps.Suggestions,
		authenticator: deps.Authenticator,
		storeMode:     deps.StoreMode,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.storeMode == "" {
		s.storeMode = "memory"
	}
	s.requestTimeout = cfg.RequestTimeout()
	s.initAuth()
	s.initRateLimit(deps.RateLimiter)
	s.routes()
	return s
}

func (s *Server) initAuth() {
	if s.cfg.AuthMode == "" {
		s.authInitErr = errors.New("AUTH_MODE is required")
		return
	}
	switch s.cfg.AuthMode {
	case "none":
		return
	case "oidc":
		if s.authenticator != nil {
			return
		}
		authenticator, err := oidc.NewAuthenticator(s.cfg)
		if err != nil {
			s.authInitErr = err
			return
		}
		s.authenticator = authenticator
	default:
		s.authInitErr = errors.New("unsupported auth mode")
	}
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB); err == nil {
				s.rateLimiter = limiter
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
				MaxKeys: s.cfg.RateLimitMaxKeys,
			})
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	if s.cfg.RateLimitWindowSeconds > 0 {
		s.rateLimitWindow = time.Duration(s.cfg.RateLimitWindowSeconds) * time.Second
	}
	s.rateLimitWithSubject = s.cfg.RateLimitIncludeSubject
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": s.storeMode})
	})

	v1 := s.r.Group("/v1")
	v1.Use(s.deadlineMiddleware(), s.authMiddleware(), s.rateLimitMiddleware())
	{
		v1.GET("/products", s.handleListProducts)
		v1.GET("/products/:id", s.handleGetProduct)
		v1.POST("/products", s.handleCreateProduct)
		v1.PUT("/products/:id", s.handleUpdateProduct)
		v1.DELETE("/products/:id", s.handleDeleteProduct)

		v1.GET("/suggestions", s.handleGetSuggestions)
		v1.PUT("/suggestions", s.handleReplaceSuggestions)
		v1.DELETE("/suggestions", s.handleClearSuggestions)
	}
}

// deadlineMiddleware bounds each request so a hung key fetch or store call
// surfaces as a timeout instead of stalling the connection.
func (s *Server) deadlineMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.requestTimeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) Run() error {
	if s.authInitErr != nil {
		return s.authInitErr
	}
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.r
}
