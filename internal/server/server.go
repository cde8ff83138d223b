package server

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/signalworks/grantradar/internal/config"
	"github.com/signalworks/grantradar/internal/core"
	"github.com/signalworks/grantradar/internal/core/cluster"
	"github.com/signalworks/grantradar/internal/llm"
	"github.com/signalworks/grantradar/internal/model"
	"github.com/signalworks/grantradar/internal/store"
)

type Server struct {
	Signals *core.Signals
	Config  *config.Config
}

func NewServer() *Server {
	dbURI := os.Getenv("MEMGRAPH_URI")
	if dbURI == "" {
		dbURI = "bolt://localhost:7687"
	}
	dbUser := os.Getenv("MEMGRAPH_USER")
	dbPass := os.Getenv("MEMGRAPH_PASSWORD")

	vs, err := store.NewMemgraphStore(dbURI, dbUser, dbPass)
	if err != nil {
		log.Fatalf("Failed to connect to Memgraph: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}

	if envProvider := os.Getenv("LLM_PROVIDER"); envProvider != "" {
		cfg.LLM.Provider = envProvider
	}
	if envModel := os.Getenv("LLM_MODEL"); envModel != "" {
		cfg.LLM.Model = envModel
	}
	if envEmbeddingModel := os.Getenv("LLM_EMBEDDING_MODEL"); envEmbeddingModel != "" {
		cfg.LLM.EmbeddingModel = envEmbeddingModel
	}
	if envAPIKey := os.Getenv("LLM_API_KEY"); envAPIKey != "" {
		cfg.LLM.APIKey = envAPIKey
	}
	if envBaseURL := os.Getenv("LLM_BASE_URL"); envBaseURL != "" {
		cfg.LLM.BaseURL = envBaseURL
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	llmClient, embedderClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	signals, err := core.NewSignals(vs, llmClient, embedderClient, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize signals core: %v", err)
	}

	if err := signals.BuildIndices(context.Background()); err != nil {
		log.Printf("Warning: failed to build indices: %v", err)
	}

	return &Server{
		Signals: signals,
		Config:  cfg,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/v1/dedup/check", s.CheckDuplicate)
	r.POST("/v1/clustering/run", s.RunClustering)
	r.GET("/healthz", s.Health)

	return r
}

type CheckDuplicateRequest struct {
	CardID    string    `json:"card_id"`
	Content   string    `json:"content"`
	URL       string    `json:"url"`
	Embedding []float32 `json:"embedding,omitempty"`
}

func (s *Server) CheckDuplicate(c *gin.Context) {
	var req CheckDuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.CardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card_id is required"})
		return
	}

	result, err := s.Signals.CheckDuplicate(c.Request.Context(), req.CardID, req.Content, req.URL, req.Embedding)
	if err != nil {
		log.Printf("Failed to check duplicate: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check duplicate"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type RunClusteringRequest struct {
	Sources       []model.ProcessedSource `json:"sources"`
	MaxNewCards   int                     `json:"max_new_cards"`
	UseClustering *bool                   `json:"use_clustering,omitempty"`
}

func (s *Server) RunClustering(c *gin.Context) {
	var req RunClusteringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	useClustering := s.Config.Clustering.UseClustering
	if req.UseClustering != nil {
		useClustering = *req.UseClustering
	}

	result, audit, err := s.Signals.RunSignalClustering(c.Request.Context(), req.Sources, cluster.Options{
		MaxNewCards:   req.MaxNewCards,
		UseClustering: useClustering,
	})
	if err != nil {
		log.Printf("Failed to run clustering: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run clustering"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "audit": audit})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
