// Package server exposes the HTTP API: auth, direct text extraction,
// screenshot uploads, and stored payment queries.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"upitrack/internal/extraction"
	"upitrack/internal/jobs"
	"upitrack/internal/store"
)

// Server wires the handlers to their dependencies.
type Server struct {
	db        *gorm.DB
	payments  *store.PaymentRepository
	uploads   *store.UploadRepository
	engine    *extraction.Engine
	publisher jobs.Publisher
	jobStore  jobs.JobStore
	log       zerolog.Logger
	jwtSecret []byte
	uploadDir string
}

// Config carries the server's dependencies.
type Config struct {
	DB        *gorm.DB
	Payments  *store.PaymentRepository
	Uploads   *store.UploadRepository
	Engine    *extraction.Engine
	Publisher jobs.Publisher
	JobStore  jobs.JobStore
	Log       zerolog.Logger
	JWTSecret []byte
	UploadDir string
}

// New creates a server from its dependencies.
func New(cfg Config) *Server {
	return &Server{
		db:        cfg.DB,
		payments:  cfg.Payments,
		uploads:   cfg.Uploads,
		engine:    cfg.Engine,
		publisher: cfg.Publisher,
		jobStore:  cfg.JobStore,
		log:       cfg.Log,
		jwtSecret: cfg.JWTSecret,
		uploadDir: cfg.UploadDir,
	}
}

// Router builds the gin engine with middleware and all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(s.log), Recovery(s.log))

	r.GET("/health", s.healthHandler)
	r.POST("/register", s.registerHandler)
	r.POST("/login", s.loginHandler)

	auth := r.Group("")
	auth.Use(s.jwtAuthMiddleware())
	auth.POST("/extract", s.extractHandler)
	auth.POST("/uploads", s.createUploadHandler)
	auth.GET("/uploads/:id", s.getUploadHandler)
	auth.GET("/jobs", s.listJobsHandler)
	auth.GET("/jobs/:id", s.getJobHandler)
	auth.GET("/payments", s.listPaymentsHandler)
	auth.POST("/payments", s.createPaymentHandler)
	auth.DELETE("/payments/:id", s.deletePaymentHandler)
	auth.GET("/payments/summary", s.summaryHandler)

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
