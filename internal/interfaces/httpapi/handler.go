package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/platform/logging"
	"github.com/OliEder/dbb-mini-bball-coach-app-sub001/internal/usecase"
)

type Handler struct {
	syncService      *usecase.LeagueSyncService
	identityService  *usecase.TeamIdentityService
	catalogService   *usecase.CatalogService
	directoryService *usecase.LeagueDirectoryService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	syncService *usecase.LeagueSyncService,
	identityService *usecase.TeamIdentityService,
	catalogService *usecase.CatalogService,
	directoryService *usecase.LeagueDirectoryService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncService:      syncService,
		identityService:  identityService,
		catalogService:   catalogService,
		directoryService: directoryService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// bind decodes a strict JSON body into dst and runs its validate tags.
func (h *Handler) bind(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(r.Context(), dst); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
