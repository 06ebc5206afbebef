package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cartdomain "github.com/smallbiznis/hostelhub/internal/cart/domain"
	chatdomain "github.com/smallbiznis/hostelhub/internal/chat/domain"
	"github.com/smallbiznis/hostelhub/internal/config"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/internal/livequery"
	"github.com/smallbiznis/hostelhub/internal/observability"
	obsmiddleware "github.com/smallbiznis/hostelhub/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/hostelhub/internal/observability/metrics"
	obstracing "github.com/smallbiznis/hostelhub/internal/observability/tracing"
	orderdomain "github.com/smallbiznis/hostelhub/internal/order/domain"
	productdomain "github.com/smallbiznis/hostelhub/internal/product/domain"
	reviewdomain "github.com/smallbiznis/hostelhub/internal/review/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

type EngineParams struct {
	fx.In

	ObsConfig   observability.Config
	Registry    *prometheus.Registry    `optional:"true"`
	HTTPMetrics *obsmetrics.HTTPMetrics `optional:"true"`
}

func NewEngine(p EngineParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           p.ObsConfig.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(p.HTTPMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if p.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{})))
	}

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log = log.Named("http")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	db         *datastore.DB
	hub        *livequery.Hub
	productSvc productdomain.Service
	reviewSvc  reviewdomain.Service
	chatSvc    chatdomain.Service
	cartSvc    cartdomain.Service
	orderSvc   orderdomain.Service

	liveHeartbeat time.Duration
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	DB         *datastore.DB
	Hub        *livequery.Hub `optional:"true"`
	ProductSvc productdomain.Service
	ReviewSvc  reviewdomain.Service
	ChatSvc    chatdomain.Service
	CartSvc    cartdomain.Service
	OrderSvc   orderdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log.Named("http.server"),
		db:            p.DB,
		hub:           p.Hub,
		productSvc:    p.ProductSvc,
		reviewSvc:     p.ReviewSvc,
		chatSvc:       p.ChatSvc,
		cartSvc:       p.CartSvc,
		orderSvc:      p.OrderSvc,
		liveHeartbeat: 15 * time.Second,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1")

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PATCH("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	// -------- Reviews --------
	api.GET("/products/:id/reviews", s.ListProductReviews)
	api.POST("/products/:id/reviews", s.CreateReview)
	api.GET("/products/:id/rating", s.GetRatingSummary)
	api.GET("/reviews/pending", s.ListPendingReviews)
	api.POST("/reviews/:id/approve", s.ApproveReview)
	api.POST("/reviews/:id/reject", s.RejectReview)
	api.DELETE("/reviews/:id", s.DeleteReview)

	// -------- Chat --------
	api.POST("/chats", s.OpenChat)
	api.GET("/chats/:id", s.GetChat)
	api.GET("/chats/:id/messages", s.ListChatMessages)
	api.POST("/chats/:id/messages", s.SendChatMessage)
	api.POST("/chats/:id/read", s.MarkChatRead)
	api.GET("/users/:id/chats", s.ListUserChats)
	api.GET("/users/:id/unread", s.GetUserUnread)

	// -------- Cart --------
	api.POST("/carts", s.CreateCart)
	api.GET("/carts/:session", s.GetCart)
	api.DELETE("/carts/:session", s.ClearCart)
	api.POST("/carts/:session/items", s.AddCartItem)
	api.DELETE("/carts/:session/items/:productId", s.RemoveCartItem)
	api.POST("/carts/:session/checkout", s.Checkout)

	// -------- Orders --------
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrderByID)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.GET("/orders/:id/receipt", s.GetOrderReceipt)
	api.GET("/users/:id/orders", s.ListUserOrders)

	// -------- Live queries --------
	api.GET("/live/versions", s.GetStoreVersions)
	api.GET("/live/:store", s.StreamStoreChanges)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
