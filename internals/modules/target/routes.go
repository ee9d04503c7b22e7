package target

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateTarget)
	r.Get("/", h.GetAllTargets)
	r.Get("/{targetID}", h.GetTarget)
	r.Patch("/{targetID}", h.UpdateTargetStatus)
	r.Delete("/{targetID}", h.DeleteTarget)
	r.Get("/{targetID}/status", h.GetCurrentStatus)
	r.Get("/{targetID}/incidents", h.GetIncidents)

	return r
}
