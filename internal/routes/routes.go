package routes

import (
	"catalog-api/internal/cache"
	"catalog-api/internal/database"
	"catalog-api/internal/handlers"
	"catalog-api/internal/middleware"
	"catalog-api/internal/pipeline"
	"catalog-api/internal/realtime"
	"catalog-api/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Provider *database.Provider
	// Cache may be nil when caching is disabled.
	Cache      *cache.ResponseCache
	Hub        *realtime.Hub
	Logger     zerolog.Logger
	Production bool
}

func SetupRoutes(deps Deps) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.HandleMethodNotAllowed = true

	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestLogger(deps.Logger),
		middleware.Metrics(),
		middleware.ErrorHandler(deps.Production, deps.Logger),
	)

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	ginRouter.NoRoute(middleware.NoRoute(deps.Production))
	ginRouter.NoMethod(middleware.NoMethod(deps.Production))

	ginRouter.GET("/health", handlers.Health(deps.Provider))
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.Hub != nil {
		ginRouter.GET("/ws", handlers.InvalidationFeed(deps.Hub, deps.Logger))
	}

	pipe := pipeline.New(deps.Provider, deps.Cache, deps.Hub, deps.Logger)

	products := handlers.NewProductHandler(repository.NewProductRepository(), pipe)
	produtos := ginRouter.Group("/produtos")
	{
		produtos.GET("", products.List)
		produtos.POST("", products.Create)
		produtos.GET("/:id", products.Get)
		produtos.PUT("/:id", products.Replace)
		produtos.DELETE("/:id", products.Delete)
	}

	customers := handlers.NewCustomerHandler(repository.NewCustomerRepository(), pipe)
	clientes := ginRouter.Group("/clientes")
	{
		clientes.GET("", customers.List)
		clientes.POST("", customers.Create)
		clientes.GET("/:id", customers.Get)
		clientes.PUT("/:id", customers.Replace)
		clientes.DELETE("/:id", customers.Delete)
	}

	return ginRouter
}
