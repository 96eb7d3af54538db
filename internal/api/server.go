package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campushub/eventhub/docs"
	v1 "github.com/campushub/eventhub/internal/api/handler/v1"
	"github.com/campushub/eventhub/internal/api/middleware"
	"github.com/campushub/eventhub/internal/cache"
	"github.com/campushub/eventhub/internal/config"
	"github.com/campushub/eventhub/internal/domain"
	"github.com/campushub/eventhub/internal/monitoring"
	"github.com/campushub/eventhub/internal/notifier"
	"github.com/campushub/eventhub/internal/repository"
	"github.com/campushub/eventhub/internal/repository/dao"
	"github.com/campushub/eventhub/internal/service"
	"github.com/campushub/eventhub/internal/storage"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	notifications service.Notifier
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	if conf.API.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.initNotifier()
	s.MountMiddlewares()

	userSvc := s.initUserService(db)
	authHandler := s.initAuthHandler(db)
	userHandler := v1.NewUserHandler(userSvc)
	eventHandler := s.initEventHandler(db, userSvc)
	adminHandler := s.initAdminHandler(db)
	s.MountHandlers(authHandler, userHandler, eventHandler, adminHandler, userSvc)

	return s
}

func (s *Server) initNotifier() {
	if s.Config.AMQP.URL == "" {
		zap.L().Warn("no AMQP broker configured, notifications disabled")
		s.notifications = notifier.Noop{}
		return
	}

	publisher, err := notifier.NewPublisher(s.Config.AMQP.URL, s.Config.AMQP.Exchange)
	if err != nil {
		zap.L().Error("failed to connect to AMQP broker, notifications disabled", zap.Error(err))
		s.notifications = notifier.Noop{}
		return
	}

	s.notifications = publisher
}

func (s *Server) initUserService(db *gorm.DB) *service.UserService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewUserService(repo)
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo, s.notifications)

	return v1.NewAuthHandler(s.Config.API, svc)
}

func (s *Server) initEventHandler(db *gorm.DB, userSvc *service.UserService) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)

	images, err := storage.NewImageStore(s.Config.Storage.ImageDir)
	if err != nil {
		zap.L().Fatal("failed to initialize image store", zap.Error(err))
	}

	svc := service.NewEventService(repo, images, s.notifications)

	return v1.NewEventHandler(svc, userSvc)
}

func (s *Server) initAdminHandler(db *gorm.DB) *v1.AdminHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	statsCache := cache.NewStatsCache(cache.NewRedisClient(s.Config.Redis))
	svc := service.NewAdminService(userRepo, eventRepo, statsCache, s.notifications)

	return v1.NewAdminHandler(svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(monitoring.Middleware())
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	eventHandler *v1.EventHandler,
	adminHandler *v1.AdminHandler,
	userSvc *service.UserService,
) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
		auth.POST("/auth/session", authHandler.HandleSessionLogin)
		auth.GET("/auth/session/protected", authHandler.HandleSessionProtected)
		auth.POST("/auth/password-reset", authHandler.HandlePasswordReset)
	}

	users := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		users.GET("/users/me", userHandler.HandleGetMe)
		users.GET("/users/:userID", userHandler.HandleGetUser)
	}

	// Listings are public; a valid token widens what the caller sees.
	events := s.Router.Group(basePath, authenticator.OptionalJWT())
	{
		events.GET("/events", eventHandler.HandleListEvents)
		events.GET("/events/:eventID", eventHandler.HandleGetEvent)
	}

	organizers := s.Router.Group(basePath,
		authenticator.VerifyJWT(), middleware.RequireActiveOrganizer(userSvc))
	{
		organizers.POST("/events", eventHandler.HandleCreateEvent)
		organizers.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		organizers.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		organizers.POST("/events/:eventID/image", eventHandler.HandleUploadImage)
	}

	students := s.Router.Group(basePath,
		authenticator.VerifyJWT(), middleware.RequireRole(domain.RoleStudent))
	{
		students.POST("/events/:eventID/register", eventHandler.HandleRegister)
		students.POST("/events/:eventID/reviews", eventHandler.HandleSubmitReview)
	}

	admins := s.Router.Group(basePath,
		authenticator.VerifyJWT(), middleware.RequireRole(domain.RoleAdmin))
	{
		admins.GET("/admin/organizers/pending", adminHandler.HandleListPendingOrganizers)
		admins.POST("/admin/organizers/:userID/approve", adminHandler.HandleApproveOrganizer)
		admins.POST("/admin/organizers/:userID/reject", adminHandler.HandleRejectOrganizer)
		admins.GET("/admin/events/pending", adminHandler.HandleListPendingEvents)
		admins.POST("/admin/events/:eventID/approve", adminHandler.HandleApproveEvent)
		admins.POST("/admin/events/:eventID/reject", adminHandler.HandleRejectEvent)
		admins.GET("/admin/dashboard", adminHandler.HandleDashboard)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", monitoring.Handler())

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "EventHub API"
	docs.SwaggerInfo.Description = "Student event-planning API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
