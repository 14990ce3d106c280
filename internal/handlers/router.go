package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/phonics-service/internal/auth"
	"github.com/SAP-F-2025/phonics-service/internal/models"
	"github.com/SAP-F-2025/phonics-service/internal/services"
	"github.com/SAP-F-2025/phonics-service/internal/utils"
)

type HandlerManager struct {
	materialHandler   *MaterialHandler
	assignmentHandler *AssignmentHandler
	playHandler       *PlayHandler
	gradingHandler    *GradingHandler
	imageHandler      *ImageHandler
	profileHandler    *ProfileHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		materialHandler: NewMaterialHandler(
			serviceManager.Material(),
			serviceManager.Assignment(),
			serviceManager.ImportExport(),
			logger,
		),
		assignmentHandler: NewAssignmentHandler(serviceManager.Assignment(), logger),
		playHandler:       NewPlayHandler(serviceManager.Play(), logger),
		gradingHandler:    NewGradingHandler(serviceManager.Grading(), logger),
		imageHandler:      NewImageHandler(serviceManager.Image(), logger),
		profileHandler:    NewProfileHandler(serviceManager.Profile(), logger),
	}
}

// RouterConfig carries what the engine needs besides the handlers
type RouterConfig struct {
	Resolver    *auth.RoleResolver
	CORSOrigins []string
	Production  bool

	// UploadsDir is served under /uploads when images are stored on disk
	UploadsDir string

	// HealthCheck reports whether the database is reachable
	HealthCheck func(ctx context.Context) error
}

// NewRouter builds the gin engine with middlewares and every route
func NewRouter(hm *HandlerManager, cfg RouterConfig, logger utils.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ContextLogger(logger))
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.Use(auth.Authenticate(cfg.Resolver, logger))

	if cfg.UploadsDir != "" {
		router.Static("/uploads", cfg.UploadsDir)
	}

	router.GET("/health", healthCheck(cfg.HealthCheck))
	hm.SetupRoutes(router)

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", utils.RequestIDHeader},
		ExposeHeaders:    []string{utils.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	} else {
		config.AllowOrigins = origins
	}
	return config
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Public catalogue
		materials := v1.Group("/materials")
		{
			materials.GET("", hm.materialHandler.ListMaterials)
			materials.GET("/:id", hm.materialHandler.GetMaterial)
			materials.GET("/:id/assignments", hm.materialHandler.ListMaterialAssignments)
		}
		v1.GET("/assignments/:id", hm.assignmentHandler.GetAssignment)

		// Stateless grading
		grading := v1.Group("/grading")
		{
			grading.POST("/check", hm.gradingHandler.CheckAnswer)
			grading.POST("/score", hm.gradingHandler.CalculateScore)
		}

		v1.GET("/profiles/me", hm.profileHandler.Me)

		// Play sessions
		play := v1.Group("/play/sessions")
		play.Use(auth.RequireRole(models.RoleLearner, models.RoleAdmin))
		{
			play.POST("", hm.playHandler.StartSession)
			play.GET("/:id", hm.playHandler.GetSession)
			play.PUT("/:id/answer", hm.playHandler.RecordAnswer)
			play.POST("/:id/next", hm.playHandler.Next)
			play.POST("/:id/previous", hm.playHandler.Previous)
			play.POST("/:id/check", hm.playHandler.Check)
			play.POST("/:id/finish", hm.playHandler.Finish)
			play.POST("/:id/restart", hm.playHandler.Restart)
			play.DELETE("/:id", hm.playHandler.Abandon)
		}

		// Authoring
		admin := v1.Group("/admin")
		admin.Use(auth.RequireRole(models.RoleAdmin))
		{
			admin.POST("/materials", hm.materialHandler.CreateMaterial)
			admin.PUT("/materials/:id", hm.materialHandler.UpdateMaterial)
			admin.DELETE("/materials/:id", hm.materialHandler.DeleteMaterial)
			admin.GET("/materials/:id/assignments/export", hm.materialHandler.ExportAssignments)
			admin.POST("/materials/:id/assignments/import", hm.materialHandler.ImportAssignments)

			admin.GET("/assignments/:id", hm.assignmentHandler.GetAssignmentDocument)
			admin.POST("/assignments", hm.assignmentHandler.CreateAssignment)
			admin.PUT("/assignments/:id", hm.assignmentHandler.UpdateAssignment)
			admin.DELETE("/assignments/:id", hm.assignmentHandler.DeleteAssignment)
			admin.POST("/assignments/:id/questions", hm.assignmentHandler.AddQuestion)
			admin.PUT("/assignments/:id/questions/:question_id", hm.assignmentHandler.UpdateQuestion)
			admin.DELETE("/assignments/:id/questions/:question_id", hm.assignmentHandler.RemoveQuestion)
			admin.POST("/questions/validate", hm.assignmentHandler.ValidateQuestion)

			admin.POST("/images", hm.imageHandler.UploadImage)
			admin.DELETE("/images/*key", hm.imageHandler.DeleteImage)

			admin.GET("/profiles", hm.profileHandler.ListProfiles)
			admin.PUT("/profiles/:id", hm.profileHandler.SetRole)
		}
	}
}

func healthCheck(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":  "healthy",
			"service": "phonics-service",
		}
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["error"] = err.Error()
			}
		}
		c.JSON(status, body)
	}
}
