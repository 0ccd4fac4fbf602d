// Package server provides the HTTP REST API for template analysis and
// document generation.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mathieu/cvforge/internal/analyzer"
	"github.com/mathieu/cvforge/internal/assets"
	"github.com/mathieu/cvforge/internal/db"
	"github.com/mathieu/cvforge/internal/extraction"
	"github.com/mathieu/cvforge/internal/pipeline"
	"github.com/mathieu/cvforge/internal/repopulate"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	service    *pipeline.Service
	extractor  extraction.Extractor
	uploadDir  string
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	GeminiModel string
	AssetDir    string
	OutputDir   string
	UploadDir   string
}

// New creates a new server instance
func New(ctx context.Context, cfg Config) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	extractor, err := extraction.NewGeminiExtractor(ctx, cfg.APIKey, cfg.GeminiModel)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create extraction client: %w", err)
	}

	store, err := assets.NewFSStore(cfg.AssetDir)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create asset store: %w", err)
	}
	an := analyzer.New(assets.NewExtractor(store))
	engine := repopulate.New()

	s := &Server{
		db:        database,
		service:   pipeline.New(database, an, engine, extractor, cfg.OutputDir),
		extractor: extractor,
		uploadDir: cfg.UploadDir,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /templates", s.handleUploadTemplate)
	mux.HandleFunc("POST /templates/{id}/analyze", s.handleAnalyzeTemplate)
	mux.HandleFunc("GET /templates/{id}/structure", s.handleGetStructure)
	mux.HandleFunc("POST /documents", s.handleUploadDocument)
	mux.HandleFunc("POST /documents/{id}/process", s.handleProcessDocument)
	mux.HandleFunc("POST /documents/{id}/generate", s.handleGenerateDocument)
	mux.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	mux.HandleFunc("GET /templates/{id}/documents", s.handleListDocuments)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRecovery(s.withLogging(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until interrupted.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.extractor.Close(); err != nil {
		log.Printf("Error closing extraction client: %v", err)
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withRecovery converts handler panics into 500 responses
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Panic handling %s %s: %v", r.Method, r.URL.Path, rec)
				s.errorResponse(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
