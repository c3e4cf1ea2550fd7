// Package router builds the gin engine and the route table.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/petla/petla-api/internal/handlers"
	"github.com/petla/petla-api/internal/middleware"
	"github.com/petla/petla-api/internal/utils"
)

type Options struct {
	Log     logrus.FieldLogger
	Metrics *middleware.Metrics
	Tokens  *utils.TokenIssuer
	// AuthRequired rejects resource requests without a valid access token.
	// When false the token is read if present but never demanded.
	AuthRequired bool
	MaxBodyBytes int64
	Origins      []string
}

func New(h *handlers.Handler, opts Options) *gin.Engine {
	handlers.RegisterValidation()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Log))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	r.Use(middleware.BodyLimit(opts.MaxBodyBytes))
	r.Use(cors.New(corsConfig(opts.Origins)))

	r.GET("/health", h.Health)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/refresh-token", h.RefreshToken)
		authRoutes.GET("/me", middleware.AuthMiddleware(opts.Tokens, true), h.Me)
	}

	resources := api.Group("")
	resources.Use(middleware.AuthMiddleware(opts.Tokens, opts.AuthRequired))

	users := resources.Group("/users")
	{
		users.GET("", h.GetUsers)
		users.POST("", h.CreateUser)
		users.GET("/profile", middleware.AuthMiddleware(opts.Tokens, true), h.Me)
		users.PUT("/profile", middleware.AuthMiddleware(opts.Tokens, true), h.UpdateProfile)
		users.POST("/upload-avatar", h.UploadAvatar)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	pets := resources.Group("/mascotas")
	{
		pets.GET("", h.GetPets)
		pets.POST("", h.CreatePet)
		pets.GET("/:id", h.GetPet)
		pets.PUT("/:id", h.UpdatePet)
		pets.DELETE("/:id", h.DeletePet)
		pets.POST("/:id/upload-photo", h.UploadPetPhoto)
	}

	citas := resources.Group("/citas")
	{
		citas.GET("", h.GetAppointments)
		citas.POST("", h.CreateAppointment)
		citas.GET("/:id", h.GetAppointment)
		citas.PUT("/:id", h.UpdateAppointment)
		citas.DELETE("/:id", h.DeleteAppointment)
		citas.PUT("/:id/estado", h.UpdateAppointmentStatus)
		citas.POST("/:id/comprobante", h.UploadPaymentProof)
		citas.PUT("/:id/validar-pago", h.ValidatePayment)
		citas.PUT("/:id/atender", h.AttendAppointment)
	}

	historial := resources.Group("/historial")
	{
		historial.GET("", h.GetClinicalHistory)
		historial.POST("", h.CreateClinicalEntry)
		historial.GET("/mascota/:petId", h.GetPetHistory)
		historial.GET("/:id", h.GetClinicalEntry)
		historial.PUT("/:id", h.UpdateClinicalEntry)
		historial.DELETE("/:id", h.DeleteClinicalEntry)
	}

	preCitas := resources.Group("/pre-citas")
	{
		preCitas.GET("", h.GetPreAppointments)
		preCitas.POST("", h.CreatePreAppointment)
		preCitas.GET("/:id", h.GetPreAppointment)
		preCitas.DELETE("/:id", h.DeletePreAppointment)
		preCitas.PUT("/:id/aprobar", h.ApprovePreAppointment)
		preCitas.PUT("/:id/rechazar", h.RejectPreAppointment)
	}

	notificaciones := resources.Group("/notificaciones")
	{
		notificaciones.GET("", h.GetNotifications)
		notificaciones.POST("", h.CreateNotification)
		notificaciones.PUT("/mark-all-read", h.MarkAllNotificationsRead)
		notificaciones.PUT("/:id/leida", h.MarkNotificationRead)
		notificaciones.DELETE("/:id", h.DeleteNotification)
	}

	newsletter := resources.Group("/newsletter")
	{
		newsletter.GET("/suscriptores", h.GetSubscribers)
		newsletter.POST("/suscribir", h.Subscribe)
		newsletter.DELETE("/unsuscribe/:email", h.Unsubscribe)
		newsletter.GET("/emails", h.GetNewsletterEmails)
		newsletter.POST("/send", h.SendNewsletter)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
