package alertrule

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateRule)
	r.Get("/", h.ListRules)
	r.Get("/{ruleID}", h.GetRule)
	r.Patch("/{ruleID}", h.UpdateRuleStatus)
	r.Delete("/{ruleID}", h.DeleteRule)

	return r
}
