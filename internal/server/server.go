package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	apikeydomain "github.com/reservaspro/reservaspro/internal/apikey/domain"
	auditdomain "github.com/reservaspro/reservaspro/internal/audit/domain"
	"github.com/reservaspro/reservaspro/internal/authorization"
	bookingdomain "github.com/reservaspro/reservaspro/internal/booking/domain"
	catalogdomain "github.com/reservaspro/reservaspro/internal/catalog/domain"
	clientprofiledomain "github.com/reservaspro/reservaspro/internal/clientprofile/domain"
	"github.com/reservaspro/reservaspro/internal/config"
	loyaltydomain "github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"github.com/reservaspro/reservaspro/internal/observability"
	obsmiddleware "github.com/reservaspro/reservaspro/internal/observability/logger"
	obsmetrics "github.com/reservaspro/reservaspro/internal/observability/metrics"
	obstracing "github.com/reservaspro/reservaspro/internal/observability/tracing"
	"github.com/reservaspro/reservaspro/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterAPIRoutes()
	}),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
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
	engine           *gin.Engine
	cfg              config.Config
	log              *zap.Logger
	apiKeySvc        apikeydomain.Service
	auditSvc         auditdomain.Service
	authzSvc         authorization.Service
	loyaltySvc       loyaltydomain.Service
	clientProfileSvc clientprofiledomain.Service
	catalogSvc       catalogdomain.Service
	bookingSvc       bookingdomain.Service
	limiter          *ratelimit.APILimiter
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	Cfg              config.Config
	Log              *zap.Logger
	APIKeySvc        apikeydomain.Service
	AuditSvc         auditdomain.Service
	AuthzSvc         authorization.Service
	LoyaltySvc       loyaltydomain.Service
	ClientProfileSvc clientprofiledomain.Service
	CatalogSvc       catalogdomain.Service
	BookingSvc       bookingdomain.Service
	Limiter          *ratelimit.APILimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		log:              p.Log.Named("http.server"),
		apiKeySvc:        p.APIKeySvc,
		auditSvc:         p.AuditSvc,
		authzSvc:         p.AuthzSvc,
		loyaltySvc:       p.LoyaltySvc,
		clientProfileSvc: p.ClientProfileSvc,
		catalogSvc:       p.CatalogSvc,
		bookingSvc:       p.BookingSvc,
		limiter:          p.Limiter,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api", s.APIKeyRequired(), s.RateLimit())

	// -------- Loyalty levels --------
	api.GET("/loyalty/levels", s.authorizeOrgAction(authorization.ObjectLevelTable, authorization.ActionLevelTableView), s.GetLevelTable)
	api.PUT("/loyalty/levels", s.authorizeOrgAction(authorization.ObjectLevelTable, authorization.ActionLevelTableReplace), s.ReplaceLevelTable)

	// -------- Services --------
	api.GET("/services", s.authorizeOrgAction(authorization.ObjectService, authorization.ActionServiceView), s.ListServices)
	api.POST("/services", s.authorizeOrgAction(authorization.ObjectService, authorization.ActionServiceCreate), s.CreateService)
	api.GET("/services/:id", s.authorizeOrgAction(authorization.ObjectService, authorization.ActionServiceView), s.GetServiceByID)
	api.PATCH("/services/:id", s.authorizeOrgAction(authorization.ObjectService, authorization.ActionServiceUpdate), s.UpdateService)

	// -------- Client profiles --------
	api.GET("/client_profiles", s.authorizeOrgAction(authorization.ObjectClientProfile, authorization.ActionClientProfileView), s.ListClientProfiles)
	api.POST("/client_profiles", s.authorizeOrgAction(authorization.ObjectClientProfile, authorization.ActionClientProfileCreate), s.CreateClientProfile)
	api.GET("/client_profiles/export.xlsx", s.authorizeOrgAction(authorization.ObjectClientProfile, authorization.ActionClientProfileExport), s.ExportClientProfiles)
	api.GET("/client_profiles/:id", s.authorizeOrgAction(authorization.ObjectClientProfile, authorization.ActionClientProfileView), s.GetClientProfileByID)
	api.PATCH("/client_profiles/:id", s.authorizeOrgAction(authorization.ObjectClientProfile, authorization.ActionClientProfileUpdate), s.UpdateClientProfile)
	api.GET("/client_profiles/:id/progress", s.authorizeOrgAction(authorization.ObjectClientProfile, authorization.ActionClientProfileView), s.GetClientProgress)
	api.GET("/client_profiles/:id/rewards", s.authorizeOrgAction(authorization.ObjectReward, authorization.ActionRewardView), s.ListClientRewards)
	api.GET("/client_profiles/:id/xp_history", s.authorizeOrgAction(authorization.ObjectClientProfile, authorization.ActionClientProfileView), s.ListClientXPHistory)

	// -------- Rewards --------
	api.GET("/rewards/:id", s.authorizeOrgAction(authorization.ObjectReward, authorization.ActionRewardView), s.GetRewardByID)
	api.GET("/rewards/:id/voucher.pdf", s.authorizeOrgAction(authorization.ObjectReward, authorization.ActionRewardView), s.DownloadRewardVoucher)

	// -------- Bookings --------
	api.GET("/bookings", s.authorizeOrgAction(authorization.ObjectBooking, authorization.ActionBookingView), s.ListBookings)
	api.POST("/bookings", s.authorizeOrgAction(authorization.ObjectBooking, authorization.ActionBookingCreate), s.CreateBooking)
	api.GET("/bookings/:id", s.authorizeOrgAction(authorization.ObjectBooking, authorization.ActionBookingView), s.GetBookingByID)
	api.POST("/bookings/:id/confirm", s.authorizeOrgAction(authorization.ObjectBooking, authorization.ActionBookingConfirm), s.ConfirmBooking)
	api.POST("/bookings/:id/cancel", s.authorizeOrgAction(authorization.ObjectBooking, authorization.ActionBookingCancel), s.CancelBooking)
	api.POST("/bookings/:id/complete", s.authorizeOrgAction(authorization.ObjectBooking, authorization.ActionBookingComplete), s.CompleteBooking)

	// -------- API keys --------
	api.GET("/api_keys", s.authorizeOrgAction(authorization.ObjectAPIKey, authorization.ActionAPIKeyView), s.ListAPIKeys)
	api.POST("/api_keys", s.authorizeOrgAction(authorization.ObjectAPIKey, authorization.ActionAPIKeyCreate), s.CreateAPIKey)
	api.POST("/api_keys/:key_id/rotate", s.authorizeOrgAction(authorization.ObjectAPIKey, authorization.ActionAPIKeyRotate), s.RotateAPIKey)
	api.POST("/api_keys/:key_id/revoke", s.authorizeOrgAction(authorization.ObjectAPIKey, authorization.ActionAPIKeyRevoke), s.RevokeAPIKey)

	api.GET("/audit_logs", s.authorizeOrgAction(authorization.ObjectAuditLog, authorization.ActionAuditLogView), s.ListAuditLogs)
}
