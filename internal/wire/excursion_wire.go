package wire

import (
	"tour-booking/internal/adaptor"
	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/pkg/middleware"
	"tour-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireExcursion(
	r chi.Router,
	excursionHandler *adaptor.ExcursionHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/excursions/{id}", func(r chi.Router) {
		// public
		r.Get("/availability", excursionHandler.GetAvailability)
		r.Get("/slots", excursionHandler.ListSlots)
		r.Get("/slots/lookup", excursionHandler.FindSlot)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthSession(repo.Session, log))
			r.Use(middleware.RequireRole(log,
				string(entity.RoleGuide),
				string(entity.RoleManager),
				string(entity.RoleAdmin),
			))

			r.Post("/slots", excursionHandler.CreateSlots)
		})
	})
}
