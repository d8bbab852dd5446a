package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinica-api/internal/config"
	"clinica-api/internal/handlers"
	"clinica-api/internal/middleware"
	"clinica-api/internal/models"
	"clinica-api/internal/utils"
)

// SetupRoutes configures the application routes and their guards.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	pacienteHandler := handlers.NewPacienteHandler(db)
	medicoHandler := handlers.NewMedicoHandler(db)
	consultaHandler := handlers.NewConsultaHandler(db)
	prontuarioHandler := handlers.NewProntuarioHandler(db)
	exameHandler := handlers.NewExameHandler(db)
	prescricaoHandler := handlers.NewPrescricaoHandler(db)

	auth := middleware.AuthMiddleware(cfg)
	adminOnly := middleware.RoleAuthMiddleware(models.RoleAdmin)
	adminOuMedico := middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleMedico)

	// Liveness route
	router.GET("/", func(c *gin.Context) {
		utils.Success(c, "API da Clínica Médica funcionando!", nil)
	})

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/register", authHandler.Register)
	}

	pacientes := api.Group("/pacientes")
	{
		// Reads are public
		pacientes.GET("", pacienteHandler.ListarPacientes)
		pacientes.GET("/:id", pacienteHandler.ObterPaciente)

		pacientes.POST("", auth, pacienteHandler.CriarPaciente)
		pacientes.PUT("/:id", auth, pacienteHandler.AtualizarPaciente)
		pacientes.PATCH("/:id", auth, pacienteHandler.AtualizarParcialPaciente)
		pacientes.DELETE("/:id", auth, adminOnly, pacienteHandler.ExcluirPaciente)
	}

	medicos := api.Group("/medicos")
	{
		// Reads are public
		medicos.GET("", medicoHandler.ListarMedicos)
		medicos.GET("/:id", medicoHandler.ObterMedico)

		medicos.POST("", auth, adminOnly, medicoHandler.CriarMedico)
		// Self-only restriction for medico-role callers enforced in the handler
		medicos.PUT("/:id", auth, adminOuMedico, medicoHandler.AtualizarMedico)
		medicos.PATCH("/:id", auth, adminOuMedico, medicoHandler.AtualizarParcialMedico)
		medicos.DELETE("/:id", auth, adminOnly, medicoHandler.ExcluirMedico)
	}

	consultas := api.Group("/consultas", auth)
	{
		consultas.GET("", consultaHandler.ListarConsultas)
		consultas.GET("/:id", consultaHandler.ObterConsulta)
		consultas.POST("", consultaHandler.CriarConsulta)
		consultas.PUT("/:id", consultaHandler.AtualizarConsulta)
		consultas.PATCH("/:id", consultaHandler.AtualizarParcialConsulta)
		consultas.DELETE("/:id", adminOuMedico, consultaHandler.ExcluirConsulta)
	}

	prontuarios := api.Group("/prontuarios", auth)
	{
		prontuarios.GET("", prontuarioHandler.ListarProntuarios)
		prontuarios.GET("/:id", prontuarioHandler.ObterProntuario)
		prontuarios.POST("", adminOuMedico, prontuarioHandler.CriarProntuario)
		prontuarios.PUT("/:id", adminOuMedico, prontuarioHandler.AtualizarProntuario)
		prontuarios.PATCH("/:id", adminOuMedico, prontuarioHandler.AtualizarParcialProntuario)
		prontuarios.DELETE("/:id", adminOnly, prontuarioHandler.ExcluirProntuario)
	}

	exames := api.Group("/exames", auth)
	{
		exames.GET("", exameHandler.ListarExames)
		exames.GET("/:id", exameHandler.ObterExame)
		exames.POST("", adminOuMedico, exameHandler.CriarExame)
		exames.PUT("/:id", adminOuMedico, exameHandler.AtualizarExame)
		exames.PATCH("/:id", adminOuMedico, exameHandler.AtualizarParcialExame)
		exames.DELETE("/:id", adminOnly, exameHandler.ExcluirExame)
	}

	prescricoes := api.Group("/prescricoes", auth)
	{
		prescricoes.GET("", prescricaoHandler.ListarPrescricoes)
		prescricoes.GET("/:id", prescricaoHandler.ObterPrescricao)
		prescricoes.POST("", adminOuMedico, prescricaoHandler.CriarPrescricao)
		prescricoes.PUT("/:id", adminOuMedico, prescricaoHandler.AtualizarPrescricao)
		prescricoes.PATCH("/:id", adminOuMedico, prescricaoHandler.AtualizarParcialPrescricao)
		prescricoes.DELETE("/:id", adminOnly, prescricaoHandler.ExcluirPrescricao)
	}

	// Unmatched routes answer with the standard envelope
	router.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Rota não encontrada")
	})
}
