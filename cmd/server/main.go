// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/realtycall/realtycall-backend/internal/controller"
	"github.com/realtycall/realtycall-backend/internal/db"
	"github.com/realtycall/realtycall-backend/internal/handler"
	"github.com/realtycall/realtycall-backend/internal/middleware"
	"github.com/realtycall/realtycall-backend/internal/queue"
	"github.com/realtycall/realtycall-backend/internal/repository"
	"github.com/realtycall/realtycall-backend/internal/service"
	"github.com/realtycall/realtycall-backend/internal/telephony"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()
	q := queue.NewInMemoryQueue()

	leadRepo := &repository.LeadRepository{DB: db.DB}
	projectRepo := &repository.ProjectRepository{DB: db.DB}
	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	callLogRepo := &repository.CallLogRepository{DB: db.DB}

	var dialer telephony.Dialer = &telephony.MockDialer{}
	if url := os.Getenv("VOICE_API_URL"); url != "" {
		dialer = telephony.NewClient(os.Getenv("VOICE_API_KEY"), url)
	}
	queue.StartCallRetrySubscriber(q, callLogRepo, dialer)

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		ProjectRepo:  projectRepo,
		LeadRepo:     leadRepo,
		CallLogRepo:  callLogRepo,
		Dialer:       dialer,
		Queue:        q,
	}
	importService := &service.LeadImportService{
		LeadRepo: leadRepo,
	}

	campaignController := controller.NewCampaignController(campaignService)
	leadController := &controller.LeadController{
		ImportService: importService,
		LeadRepo:      leadRepo,
	}
	projectController := &controller.ProjectController{
		ProjectRepo: projectRepo,
	}
	campaignHandler := handler.NewCampaignHandler(campaignService)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Org-ID"},
	}))

	// Lead import routes
	r.Post("/leads/import/preview", leadController.ImportPreview)
	r.Post("/leads/import", leadController.ImportLeads)
	r.Get("/leads", leadController.ListLeads)

	// Project routes
	r.Post("/projects", projectController.CreateProject)
	r.Get("/projects", projectController.ListProjects)

	// Campaign routes
	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignHandler.GetCampaignWithStats)
	r.Patch("/campaigns/{id}", campaignController.UpdateCampaign)
	r.Delete("/campaigns/{id}", campaignController.DeleteCampaign)
	r.Post("/campaigns/{id}/start", campaignController.StartCampaign)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	log.Println("🚀 Server running on :8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}
