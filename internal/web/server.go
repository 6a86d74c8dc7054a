package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/Zachkp/folio/internal/analytics"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/logging"
)

//go:embed templates/*.html
var templatesFS embed.FS

type AdminCredentials struct {
	Username string
	Password string
}

type Options struct {
	Content   *content.Portfolio
	Sessions  *contact.Registry
	Store     *analytics.Store
	Tracker   *analytics.Tracker
	Admin     AdminCredentials
	Clock     clockwork.Clock
	Logger    zerolog.Logger
	StaticDir string
	// SecureCookies marks cookies Secure; enable behind TLS.
	SecureCookies bool
	Retention     time.Duration
}

type Server struct {
	opts       Options
	engine     *gin.Engine
	adminToken string
	logger     zerolog.Logger
}

func New(opts Options) (*Server, error) {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	token, err := analytics.RandomToken()
	if err != nil {
		return nil, fmt.Errorf("admin token: %w", err)
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"markdown": content.Markdown,
		"join":     strings.Join,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		opts:       opts,
		adminToken: token,
		logger:     opts.Logger.With().Str("component", "web").Logger(),
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.Gin(opts.Logger))
	if opts.Tracker != nil {
		r.Use(opts.Tracker.Middleware())
	}
	r.SetHTMLTemplate(tmpl)
	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.setupPageRoutes(r)
	s.setupContactRoutes(r)
	s.setupAdminRoutes(r)

	s.engine = r
	s.logger.Debug().Msg("admin access available at /admin/login")
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}
