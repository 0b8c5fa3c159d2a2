// Package api exposes the ledger and the dashboard over HTTP.
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"finance-tracker-backend/internal/auth"
	"finance-tracker-backend/internal/ledger"
)

// Store is the persistence the handlers need. *ledger.Store satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, name, email, passwordHash string) (ledger.User, error)
	UserByEmail(ctx context.Context, email string) (ledger.User, error)
	UserByID(ctx context.Context, id int64) (ledger.User, error)

	ListCategories(ctx context.Context, userID int64, p ledger.Page) (ledger.PageResult[ledger.Category], error)
	CategoryByID(ctx context.Context, userID, id int64) (ledger.Category, error)
	CreateCategory(ctx context.Context, userID int64, name string) (ledger.Category, error)
	UpdateCategory(ctx context.Context, userID, id int64, name string) (ledger.Category, error)
	DeleteCategory(ctx context.Context, userID, id int64) error

	ListTransactions(ctx context.Context, userID int64, f ledger.TransactionFilter, p ledger.Page) (ledger.PageResult[ledger.Transaction], error)
	TransactionByID(ctx context.Context, userID, id int64) (ledger.Transaction, error)
	CreateTransaction(ctx context.Context, userID int64, in ledger.TransactionInput) (ledger.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id int64, in ledger.TransactionInput) (ledger.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error

	AllTransactionsForUser(ctx context.Context, userID int64) ([]ledger.Transaction, error)
}

// DashboardCache stores rendered dashboards per user, generation and day.
// Invalidate moves the user to a new generation. *cache.Dashboards satisfies it.
type DashboardCache interface {
	Generation(ctx context.Context, userID int64) (int64, bool)
	Get(ctx context.Context, userID, generation int64, today time.Time, dst any) bool
	Set(ctx context.Context, userID, generation int64, today time.Time, v any)
	Invalidate(ctx context.Context, userID int64)
}

// Options configures a Server.
type Options struct {
	Store       Store
	Cache       DashboardCache
	Tokens      *auth.Issuer
	Location    *time.Location
	Now         func() time.Time
	CORSOrigins []string
	LoginRate   float64
	LoginBurst  int
	Logger      zerolog.Logger
}

type Server struct {
	store    Store
	cache    DashboardCache
	tokens   *auth.Issuer
	location *time.Location
	now      func() time.Time
	log      zerolog.Logger
	router   *gin.Engine
}

// New builds the server and its routes.
func New(opts Options) *Server {
	s := &Server{
		store:    opts.Store,
		cache:    opts.Cache,
		tokens:   opts.Tokens,
		location: opts.Location,
		now:      opts.Now,
		log:      opts.Logger,
	}
	if s.cache == nil {
		s.cache = noCache{}
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.log))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, o := range origins {
		// browsers reject credentials with a wildcard origin
		if o == "*" {
			allowCredentials = false
		}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.healthCheck)

	limiter := newIPLimiter(opts.LoginRate, opts.LoginBurst)
	authGroup := r.Group("/api/auth", limiter.middleware())
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	api := r.Group("/api", s.requireAuth())
	api.GET("/user/me", s.currentUser)

	api.GET("/categories", s.listCategories)
	api.POST("/categories", s.createCategory)
	api.GET("/categories/:id", s.getCategory)
	api.PUT("/categories/:id", s.updateCategory)
	api.DELETE("/categories/:id", s.deleteCategory)

	api.GET("/transactions", s.listTransactions)
	api.POST("/transactions", s.createTransaction)
	api.GET("/transactions/:id", s.getTransaction)
	api.PUT("/transactions/:id", s.updateTransaction)
	api.DELETE("/transactions/:id", s.deleteTransaction)

	api.GET("/dashboard", s.getDashboard)

	s.router = r
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// today is the current calendar date in the configured time zone.
func (s *Server) today() time.Time {
	return s.now().In(s.location)
}

type noCache struct{}

func (noCache) Generation(context.Context, int64) (int64, bool)     { return 0, false }
func (noCache) Get(context.Context, int64, int64, time.Time, any) bool { return false }
func (noCache) Set(context.Context, int64, int64, time.Time, any)       {}
func (noCache) Invalidate(context.Context, int64)                       {}
