// Package server exposes the parser over a small HTTP API.
package server

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/eracun-processor/internal/model"
	"github.com/rezonia/eracun-processor/internal/parser/ubl"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config *Config
	router *gin.Engine
	parser *ubl.Parser
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config: config,
		router: router,
		parser: ubl.NewParser(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Parse endpoints
		v1.POST("/parse/invoice", s.handleParseInvoice)
		v1.POST("/parse/creditnote", s.handleParseCreditNote)
		v1.POST("/parse/auto", s.handleParseAuto)

		// Validate endpoint
		v1.POST("/validate", s.handleValidate)

		// Info endpoint
		v1.POST("/info", s.handleInfo)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// readBody pulls the raw request body, answering 400 itself when the
// body is missing or unreadable.
func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return nil, false
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return nil, false
	}
	return body, true
}

func (s *Server) handleParseInvoice(c *gin.Context) {
	s.parseWith(c, func(ctx context.Context, body []byte) (*model.ParsedDocument, error) {
		return s.parser.ParseInvoice(ctx, bytes.NewReader(body))
	})
}

func (s *Server) handleParseCreditNote(c *gin.Context) {
	s.parseWith(c, func(ctx context.Context, body []byte) (*model.ParsedDocument, error) {
		return s.parser.ParseCreditNote(ctx, bytes.NewReader(body))
	})
}

func (s *Server) handleParseAuto(c *gin.Context) {
	s.parseWith(c, s.parser.ParseBytes)
}

func (s *Server) parseWith(c *gin.Context, parse func(context.Context, []byte) (*model.ParsedDocument, error)) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	doc, err := parse(ctx, body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		Document: doc,
		Kind:     string(doc.Kind),
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	doc, err := s.parser.ParseBytes(ctx, body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"valid":  false,
			"errors": []string{err.Error()},
		})
		return
	}

	errors, warnings := model.CheckDocument(doc)
	c.JSON(http.StatusOK, ValidationResponse{
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	doc, err := s.parser.ParseBytes(ctx, body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, InfoResponse{
		Kind:          string(doc.Kind),
		SupplierName:  doc.Supplier.Name,
		InvoiceNumber: doc.Header.SupplierInvoiceID,
		PayableAmount: doc.Header.PayableAmount,
		Lines:         len(doc.Lines),
		HasAttachment: len(doc.Attachment) > 0,
		Size:          len(body),
	})
}
