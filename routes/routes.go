package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openformlab/form-server/controllers"
	"github.com/openformlab/form-server/middleware"
	"github.com/openformlab/form-server/repositories"
	"github.com/openformlab/form-server/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	userRepo := repositories.NewUserRepository(db)
	formRepo := repositories.NewFormRepository(db)
	responseRepo := repositories.NewResponseRepository(db)

	userSvc := services.NewUserService(userRepo)
	formSvc := services.NewFormService(formRepo, userRepo)
	responseSvc := services.NewResponseService(formRepo, responseRepo)
	analyticsSvc := services.NewAnalyticsService(formRepo, responseRepo)

	authCtl := controllers.NewAuthController(userSvc)
	formCtl := controllers.NewFormController(formSvc, analyticsSvc)
	responseCtl := controllers.NewResponseController(responseSvc)
	healthCtl := controllers.NewHealthController(db)

	r.GET("/health", healthCtl.Check)

	forms := r.Group("/forms")
	{
		forms.POST("/", formCtl.Create)
		forms.GET("/list/", formCtl.List)
		forms.GET("/:form_id", formCtl.Detail)
		forms.DELETE("/:form_id", middleware.AuthJWT(userRepo), middleware.RequireAdmin(), formCtl.Delete)
		forms.POST("/:form_id/responses/", middleware.RateLimitSubmissions(), responseCtl.Submit)
		forms.GET("/:form_id/analytics/", formCtl.Analytics)
	}

	auth := r.Group("/auth")
	{
		auth.POST("/create/", authCtl.CreateUser)
		auth.POST("/login", authCtl.Login)
	}
}
