package adaptor

import (
	"encoding/json"
	"net/http"

	"tour-booking/internal/dto/request"
	"tour-booking/internal/dto/response"
	"tour-booking/internal/usecase"
	"tour-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ExcursionHandler serves ticket slots and the availability view of an excursion.
type ExcursionHandler struct {
	inventory    usecase.InventoryService
	availability usecase.AvailabilityService
	log          *zap.Logger
}

func NewExcursionHandler(inventory usecase.InventoryService, availability usecase.AvailabilityService, log *zap.Logger) *ExcursionHandler {
	return &ExcursionHandler{
		inventory:    inventory,
		availability: availability,
		log:          log.With(zap.String("handler", "excursion")),
	}
}

// GetAvailability handles GET /api/excursions/{id}/availability (public)
func (h *ExcursionHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	excursionID, ok := idParam(w, chi.URLParam(r, "id"), "excursion ID")
	if !ok {
		return
	}

	view, err := h.availability.GetAvailability(r.Context(), excursionID)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", view)
}

// ListSlots handles GET /api/excursions/{id}/slots (public)
func (h *ExcursionHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	excursionID, ok := idParam(w, chi.URLParam(r, "id"), "excursion ID")
	if !ok {
		return
	}

	slots, err := h.inventory.ListSlots(r.Context(), excursionID)
	if err != nil {
		handleServiceError(w, h.log, err, "list slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// FindSlot handles GET /api/excursions/{id}/slots/lookup?date=&time=&category= (public)
func (h *ExcursionHandler) FindSlot(w http.ResponseWriter, r *http.Request) {
	excursionID, ok := idParam(w, chi.URLParam(r, "id"), "excursion ID")
	if !ok {
		return
	}

	q := r.URL.Query()
	date, clock, category := q.Get("date"), q.Get("time"), q.Get("category")
	if date == "" || clock == "" || category == "" {
		utils.ResponseBadRequest(w, "date, time and category are required", nil)
		return
	}

	slot, err := h.inventory.FindSlot(r.Context(), excursionID, date, clock, category)
	if err != nil {
		handleServiceError(w, h.log, err, "find slot")
		return
	}

	utils.ResponseSuccess(w, "success", response.SlotToResponse(slot, h.inventory.Remaining(slot)))
}

// CreateSlots handles POST /api/excursions/{id}/slots (guide, manager, admin)
func (h *ExcursionHandler) CreateSlots(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	excursionID, ok := idParam(w, chi.URLParam(r, "id"), "excursion ID")
	if !ok {
		return
	}

	var req request.CreateSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	slots, err := h.inventory.CreateSlots(r.Context(), actor, excursionID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create slots")
		return
	}

	utils.ResponseCreated(w, "Ticket slots created", slots)
}
