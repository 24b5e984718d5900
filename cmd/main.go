package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/Formlet/config"
	"github.com/lshigami/Formlet/database"
	"github.com/lshigami/Formlet/internal/controller"
	"github.com/lshigami/Formlet/internal/logger"
	"github.com/lshigami/Formlet/internal/middleware"
	"github.com/lshigami/Formlet/internal/model"
	"github.com/lshigami/Formlet/internal/repository"
	"github.com/lshigami/Formlet/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Formlet API
// @version 1.0
// @description Form builder and response collection API. Owners design forms with short text, long text, radio and checkbox questions; anyone the settings allow can submit responses.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	registerCustomValidators()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewFormRepository,
			repository.NewQuestionRepository,
			repository.NewSettingsRepository,
			repository.NewResponseRepository,
		),

		fx.Provide(
			func(userRepo repository.UserRepository, cfg *config.Config) service.AuthService {
				return service.NewAuthService(userRepo, service.TokenSigner(middleware.NewTokenSigner(cfg.JWTSecret)))
			},
			service.NewFormService,
			service.NewFormEditorService,
			service.NewResponseService,
			service.NewExportService,
		),

		fx.Provide(
			controller.NewAuthController,
			controller.NewFormController,
			controller.NewResponseController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *controller.AuthController,
	formCtrl *controller.FormController,
	responseCtrl *controller.ResponseController,
) {
	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authCtrl.Register)
		authGroup.POST("/login", authCtrl.Login)
	}

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	formsGroup := api.Group("/forms")
	{
		formsGroup.POST("", requireAuth, formCtrl.CreateForm)
		formsGroup.GET("", requireAuth, formCtrl.ListForms)
		formsGroup.GET("/:form_id", optionalAuth, formCtrl.GetForm)
		formsGroup.PUT("/:form_id", requireAuth, formCtrl.UpdateForm)
		formsGroup.DELETE("/:form_id", requireAuth, formCtrl.DeleteForm)
		formsGroup.PUT("/:form_id/settings", requireAuth, formCtrl.UpdateSettings)

		formsGroup.POST("/:form_id/responses", optionalAuth, responseCtrl.SubmitResponse)
		formsGroup.GET("/:form_id/responses", requireAuth, responseCtrl.ListFormResponses)
		formsGroup.GET("/:form_id/responses/download", requireAuth, formCtrl.ExportResponses)
		formsGroup.DELETE("/:form_id/responses/:response_id", requireAuth, responseCtrl.DeleteResponse)
	}

	responsesGroup := api.Group("/responses")
	{
		responsesGroup.GET("", requireAuth, responseCtrl.ListMyResponses)
		responsesGroup.GET("/:response_id", requireAuth, responseCtrl.GetResponse)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Formlet API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Form{},
		&model.Settings{},
		&model.Question{},
		&model.Option{},
		&model.Response{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
