package api

import (
	"net/http"
	"time"

	"github.com/david/lead-intake/internal/ai"
	"github.com/david/lead-intake/internal/config"
	"github.com/david/lead-intake/internal/db"
	"github.com/david/lead-intake/internal/ingest"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	Echo      *echo.Echo
	Store     db.LeadStore
	AI        *ai.Client
	Processor *ingest.Processor
	Importer  *ingest.Importer
	Config    *config.Config
	Log       *zap.SugaredLogger
}

func NewServer(cfg *config.Config, store db.LeadStore, aiClient *ai.Client, log *zap.SugaredLogger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	var embedder ai.Embedder
	if aiClient.Configured() {
		embedder = aiClient
	}
	processor := ingest.NewProcessor(aiClient, embedder, store, log)
	if cfg.AI.TimeoutSeconds > 0 {
		processor.AITimeout = time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	}

	fetcher := ingest.NewHTTPFetcher(time.Duration(cfg.Import.TimeoutSeconds) * time.Second)
	importer := ingest.NewImporter(fetcher, cfg.Import.MaxBytes, log)

	s := &Server{
		Echo:      e,
		Store:     store,
		AI:        aiClient,
		Processor: processor,
		Importer:  importer,
		Config:    cfg,
		Log:       log,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.POST("/upload", s.handleUpload)
	api.POST("/import-url", s.handleImportURL)
	api.POST("/process", s.handleProcess)

	api.GET("/leads", s.handleGetLeads)
	api.POST("/leads", s.handleAddLeads)
	api.PUT("/leads", s.handleUpdateLead)
	api.DELETE("/leads", s.handleDeleteLead)

	api.GET("/export", s.handleExport)
	api.POST("/export", s.handleExport)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
