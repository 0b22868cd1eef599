// Package httpapi exposes the voting backend over HTTP/JSON using gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/logging"
	"github.com/dmitrijs2005/audiovote/internal/server/models"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type CatalogService interface {
	List(ctx context.Context, viewerID *int64) ([]models.AudiobookView, error)
	Get(ctx context.Context, id int64) (*models.Audiobook, error)
}

type VoteService interface {
	SubmitVote(ctx context.Context, userID, audiobookID int64, value int) (*models.VoteResult, error)
}

type SessionManager interface {
	Create(ctx context.Context, userID int64) (string, time.Time, error)
	Resolve(ctx context.Context, token string) (int64, bool, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	SecureCookie    bool
	ShutdownTimeout time.Duration
}

type Server struct {
	address  string
	logger   logging.Logger
	users    UserService
	catalog  CatalogService
	votes    VoteService
	sessions SessionManager
	store    Pinger
	opts     Options
	engine   *gin.Engine
}

func NewServer(address string, l logging.Logger, us UserService, cs CatalogService, vs VoteService,
	sm SessionManager, store Pinger, opts Options) *Server {

	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		users:    us,
		catalog:  cs,
		votes:    vs,
		sessions: sm,
		store:    store,
		opts:     opts,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), cors())

	// these two must answer even when the session store is down
	r.GET("/health", s.health)
	r.POST("/api/logout", s.logout)

	api := r.Group("/api", s.loadSession())
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.GET("/user", s.requireUser("Not logged in"), s.currentUser)
	api.GET("/audiobooks", s.listAudiobooks)
	api.GET("/audiobooks/:id", s.getAudiobook)
	api.POST("/vote", s.requireUser("Unauthorized"), s.vote)

	return r
}

// Handler returns the routed engine, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests for up to
// ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
