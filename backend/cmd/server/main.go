package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"buffr-host/backend/internal/adapter"
	"buffr-host/backend/internal/agent"
	"buffr-host/backend/internal/graph"
	"buffr-host/backend/internal/memory"
	"buffr-host/backend/internal/personality"
	"buffr-host/backend/internal/store"
	"buffr-host/backend/internal/tools"
	"buffr-host/backend/pkg/config"
	apperrors "buffr-host/backend/pkg/errors"
	"buffr-host/backend/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Buffr Host API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Hospitality store: Postgres in production, in-memory for development
	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to Postgres", zap.Error(err))
		}
		st = pg
		log.Info("Connected to Postgres")
	} else {
		st = store.NewMemory()
		seedDemoData(ctx, st, log)
		log.Info("DATABASE_URL not set, using the in-memory store")
	}
	defer st.Close()

	// Neo4j holds conversations, memories and personality snapshots
	graphRepo, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer graphRepo.Close()

	// Composer is optional: without an API key the agent answers from templates
	var composer agent.Composer
	var toolComposer tools.Composer
	if cfg.LLMAPIKey != "" {
		llm := adapter.NewLLMAdapter(cfg.LLMGatewayURL, cfg.LLMAPIKey, cfg.ModelID)
		composer = llm
		toolComposer = llm
		log.Info("LLM composer enabled", zap.String("model", cfg.ModelID))
	} else {
		log.Info("LLM_API_KEY not set, running in template mode")
	}

	// Initialize dependencies
	memories := memory.NewManager(graphRepo, cfg.MemoryCacheSize, cfg.MemoryRetrieveLimit)
	persona := personality.NewEngine(cfg.PersonalityLearningRate, graphRepo)
	executor := tools.NewExecutor(tools.NewRegistry(), st, toolComposer, time.Duration(cfg.ToolTimeoutSeconds)*time.Second)
	svc := agent.NewService(memories, graphRepo, persona, executor, composer, st)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(svc, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newRouter builds the HTTP surface over the agent service.
func newRouter(svc *agent.Service, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Tenant-ID, X-Property-ID, X-User-ID, X-Auth-Subject, X-Scopes")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		health := svc.HealthStatus(c.Request.Context())
		code := http.StatusOK
		if health.Status == agent.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, health)
	})

	// API routes
	api := router.Group("/api/v1")
	{
		// Chat with the concierge
		api.POST("/chat", func(c *gin.Context) {
			var req struct {
				Message string `json:"message" binding:"required"`
				UserID  string `json:"userId"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			userID := req.UserID
			if userID == "" {
				userID = c.GetHeader("X-User-ID")
			}
			if userID == "" {
				userID = "anonymous"
			}

			result := svc.Chat(c.Request.Context(), chatContextFrom(c, userID), req.Message)
			c.JSON(http.StatusOK, result)
		})

		// Conversation history
		api.GET("/conversations/:userID", func(c *gin.Context) {
			userID := c.Param("userID")
			limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

			messages, err := svc.ConversationHistory(c.Request.Context(), tenantID(c), userID, limit)
			if err != nil {
				log.Error("Failed to fetch conversation history", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"userId":   userID,
				"messages": messages,
			})
		})

		// Tool catalog
		api.GET("/tools", func(c *gin.Context) {
			catalog := svc.Tools()
			c.JSON(http.StatusOK, gin.H{
				"tools": catalog,
				"count": len(catalog),
			})
		})

		// Direct tool execution; the body is the tool's JSON arguments
		api.POST("/tools/:name/execute", func(c *gin.Context) {
			body, err := c.GetRawData()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			result := svc.ExecuteTool(c.Request.Context(), execContextFrom(c), c.Param("name"), string(body))
			c.JSON(http.StatusOK, result)
		})

		// Memories
		api.POST("/memories", func(c *gin.Context) {
			var req struct {
				UserID  string `json:"userId" binding:"required"`
				Content string `json:"content" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			record, err := svc.StoreMemory(c.Request.Context(), tenantID(c), req.UserID, req.Content)
			if err != nil {
				log.Error("Failed to store memory", zap.Error(err))
				c.JSON(statusForError(err), gin.H{"error": "Failed to store memory"})
				return
			}

			c.JSON(http.StatusCreated, record)
		})

		api.GET("/memories/search", func(c *gin.Context) {
			query := c.Query("q")
			if query == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
				return
			}
			limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

			records, err := svc.SearchMemories(c.Request.Context(), tenantID(c), query, limit)
			if err != nil {
				log.Error("Failed to search memories", zap.Error(err))
				c.JSON(statusForError(err), gin.H{"error": "Failed to search memories"})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"memories": records,
				"count":    len(records),
			})
		})

		api.PUT("/memories/:id", func(c *gin.Context) {
			var req struct {
				Content string `json:"content" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			record, err := svc.UpdateMemory(c.Request.Context(), tenantID(c), c.Param("id"), req.Content)
			if err != nil {
				if apperrors.IsNotFound(err) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Memory not found"})
					return
				}
				log.Error("Failed to update memory", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update memory"})
				return
			}

			c.JSON(http.StatusOK, record)
		})

		api.DELETE("/memories/:id", func(c *gin.Context) {
			if err := svc.DeleteMemory(c.Request.Context(), tenantID(c), c.Param("id")); err != nil {
				if apperrors.IsNotFound(err) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Memory not found"})
					return
				}
				log.Error("Failed to delete memory", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete memory"})
				return
			}

			c.Status(http.StatusNoContent)
		})

		// Current personality profile
		api.GET("/personality", func(c *gin.Context) {
			c.JSON(http.StatusOK, svc.Personality(c.Request.Context(), tenantID(c), c.GetHeader("X-Property-ID")))
		})

		// Full state snapshot
		api.GET("/state/export", func(c *gin.Context) {
			userID := c.Query("userId")
			if userID == "" {
				userID = c.GetHeader("X-User-ID")
			}
			if userID == "" {
				userID = "anonymous"
			}

			export, err := svc.ExportState(c.Request.Context(), tenantID(c), c.GetHeader("X-Property-ID"), userID)
			if err != nil {
				log.Error("Failed to export state", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export state"})
				return
			}

			c.JSON(http.StatusOK, export)
		})
	}

	return router
}

// tenantID resolves the tenant for a request. Single-property deployments
// never send the header and land on "default".
func tenantID(c *gin.Context) string {
	if tenant := c.GetHeader("X-Tenant-ID"); tenant != "" {
		return tenant
	}
	return "default"
}

func chatContextFrom(c *gin.Context, userID string) agent.ChatContext {
	return agent.ChatContext{
		TenantID:    tenantID(c),
		PropertyID:  c.GetHeader("X-Property-ID"),
		UserID:      userID,
		AuthSubject: c.GetHeader("X-Auth-Subject"),
		Scopes:      parseScopes(c.GetHeader("X-Scopes")),
	}
}

func execContextFrom(c *gin.Context) *tools.ExecutionContext {
	return &tools.ExecutionContext{
		TenantID:    tenantID(c),
		PropertyID:  c.GetHeader("X-Property-ID"),
		UserID:      c.GetHeader("X-User-ID"),
		AuthSubject: c.GetHeader("X-Auth-Subject"),
		Scopes:      parseScopes(c.GetHeader("X-Scopes")),
	}
}

func parseScopes(raw string) []string {
	if raw == "" {
		return nil
	}
	var scopes []string
	for _, part := range strings.Split(raw, ",") {
		if scope := strings.TrimSpace(part); scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}

func statusForError(err error) int {
	if apperrors.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// seedDemoData loads a small menu and stock list so the in-memory store
// has something to serve.
func seedDemoData(ctx context.Context, st store.Store, log *zap.Logger) {
	menu := []*store.MenuItem{
		{TenantID: "default", Name: "Oryx steak", Description: "Grilled oryx loin with pap and chakalaka", Price: 240, Category: "mains", Available: true},
		{TenantID: "default", Name: "Kapana beef", Description: "Windhoek street-style grilled strips with chili salt", Price: 95, Category: "mains", Available: true},
		{TenantID: "default", Name: "Braai platter", Description: "Boerewors, lamb chops and chicken with garlic bread", Price: 320, Category: "mains", Available: true},
		{TenantID: "default", Name: "Chakalaka and pap", Description: "Spicy vegetable relish over maize porridge", Price: 55, Category: "sides", Available: true},
		{TenantID: "default", Name: "Melktert", Description: "Cinnamon milk tart", Price: 45, Category: "desserts", Allergens: []string{"gluten", "dairy", "egg"}, Available: true},
		{TenantID: "default", Name: "Rock shandy", Description: "Lemonade, soda and bitters", Price: 35, Category: "drinks", Available: true},
		{TenantID: "default", Name: "Windhoek lager", Description: "Local draught, 440ml", Price: 30, Category: "drinks", Available: true},
	}
	for _, item := range menu {
		if err := st.UpsertMenuItem(ctx, item); err != nil {
			log.Warn("Failed to seed menu item", zap.String("name", item.Name), zap.Error(err))
		}
	}

	stock := []*store.InventoryItem{
		{TenantID: "default", SKU: "TOWEL-BATH", Name: "Bath towels", Quantity: 120, Unit: "pcs", ReorderLevel: 40, ReorderQuantity: 60},
		{TenantID: "default", SKU: "SOAP-BAR", Name: "Guest soap bars", Quantity: 300, Unit: "pcs", ReorderLevel: 100, ReorderQuantity: 200},
		{TenantID: "default", SKU: "GIN-BOT", Name: "Craft gin 750ml", Quantity: 24, Unit: "bottles", ReorderLevel: 6, ReorderQuantity: 12},
		{TenantID: "default", SKU: "COFFEE-KG", Name: "House blend coffee", Quantity: 18, Unit: "kg", ReorderLevel: 5, ReorderQuantity: 10},
	}
	for _, item := range stock {
		if err := st.UpsertInventoryItem(ctx, item); err != nil {
			log.Warn("Failed to seed inventory item", zap.String("sku", item.SKU), zap.Error(err))
		}
	}

	log.Info("Seeded demo data",
		zap.Int("menuItems", len(menu)),
		zap.Int("inventoryItems", len(stock)),
	)
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
