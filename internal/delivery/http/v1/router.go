package v1

import (
	"net/http"

	"github.com/Moses2004/JobX/config"
	"github.com/Moses2004/JobX/internal/delivery/http/middleware"
	"github.com/Moses2004/JobX/internal/delivery/http/response"
	"github.com/Moses2004/JobX/internal/domain"
	"github.com/Moses2004/JobX/pkg/auth"
	"github.com/Moses2004/JobX/pkg/supabase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	SessionUC domain.SessionUsecase
	RouterUC  domain.RouterUsecase
	Supabase  *supabase.Client
	Verifier  *auth.Verifier
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AppOrigin)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier))
	{
		NewAuthHandler(v1, protected, deps.SessionUC, deps.RouterUC)
		NewProfileHandler(protected, deps.SessionUC, deps.RouterUC, deps.Supabase, deps.Config)
		NewAppHandler(v1, protected, deps.SessionUC, deps.RouterUC)
	}

	return r
}
