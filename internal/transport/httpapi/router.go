package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(sched SchedulingService, cat CatalogService, log *slog.Logger, requestTimeout time.Duration) http.Handler {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}

	appointments := NewAppointmentsHandler(sched, log)
	catalog := NewCatalogHandler(cat, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/appointments", func(r chi.Router) {
			r.Post("/book", appointments.Book)
			r.Post("/{id}/cancel", appointments.Cancel)
			r.Post("/{id}/reschedule", appointments.Reschedule)
			r.Get("/by-dentist", appointments.ListByDentist)
		})
		r.Get("/availability", appointments.Availability)

		r.Route("/dentists", func(r chi.Router) {
			r.Get("/", catalog.ListDentists)
			r.Post("/", catalog.CreateDentist)
			r.Put("/{id}", catalog.UpdateDentist)
			r.Delete("/{id}", catalog.DeleteDentist)
		})
		r.Route("/patients", func(r chi.Router) {
			r.Get("/", catalog.ListPatients)
			r.Post("/", catalog.CreatePatient)
			r.Put("/{id}", catalog.UpdatePatient)
			r.Delete("/{id}", catalog.DeletePatient)
		})
		r.Route("/services", func(r chi.Router) {
			r.Get("/", catalog.ListServices)
			r.Post("/", catalog.CreateService)
			r.Put("/{id}", catalog.UpdateService)
			r.Delete("/{id}", catalog.DeleteService)
		})
	})

	return r
}
