package adaptor

import (
	"net/http"

	"tour-booking/internal/usecase"
	"tour-booking/pkg/apperror"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking      *BookingHandler
	Excursion    *ExcursionHandler
	Notification *NotificationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:      NewBookingHandler(service.Booking, log),
		Excursion:    NewExcursionHandler(service.Inventory, service.Availability, log),
		Notification: NewNotificationHandler(service.Notification, log),
	}
}

var statusByKind = map[apperror.Kind]int{
	apperror.KindNotFound:              http.StatusNotFound,
	apperror.KindInvalidArgument:       http.StatusBadRequest,
	apperror.KindPreconditionFailed:    http.StatusPreconditionFailed,
	apperror.KindInsufficientInventory: http.StatusConflict,
	apperror.KindUnauthorized:          http.StatusUnauthorized,
	apperror.KindForbidden:             http.StatusForbidden,
	apperror.KindConflict:              http.StatusConflict,
	apperror.KindIntegrityFault:        http.StatusInternalServerError,
	apperror.KindInternal:              http.StatusInternalServerError,
}

// handleServiceError writes err with the status code of its kind. Internal
// failures are logged in full and reported without detail.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	kind := apperror.KindOf(err)
	code, ok := statusByKind[kind]
	if !ok {
		code = http.StatusInternalServerError
	}

	if code == http.StatusInternalServerError {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("kind", string(kind)))
	} else {
		log.Warn(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("kind", string(kind)))
	}

	utils.ResponseKind(w, code, string(kind), apperror.MessageOf(err), nil)
}

// actorFrom returns the authenticated caller or writes 401.
func actorFrom(w http.ResponseWriter, r *http.Request) (utils.Actor, bool) {
	actor, ok := utils.GetActorFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return actor, ok
}

// idParam parses a positive integer path parameter or writes 400.
func idParam(w http.ResponseWriter, value, name string) (int64, bool) {
	id, ok := utils.ParseID(value)
	if !ok {
		utils.ResponseBadRequest(w, "Invalid "+name, nil)
	}
	return id, ok
}
