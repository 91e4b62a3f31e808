package handler

import (
	"context"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/store"
	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
)

type CategoryLoader interface {
	Load(ctx context.Context) store.CategoryResult
}

type CategoryHandler struct {
	catalog CategoryLoader
	logger  *logger.Logger
}

func NewCategoryHandler(c CategoryLoader, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{catalog: c, logger: log.Named("CategoryHandler")}
}

type categoriesResponse struct {
	Outcome    store.Outcome     `json:"outcome"`
	Categories []domain.Category `json:"categories"`
	Error      string            `json:"error,omitempty"`
}

func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	res := h.catalog.Load(r.Context())
	body := categoriesResponse{Outcome: res.Outcome, Categories: res.Categories}
	if res.Reason != nil {
		body.Error = res.Reason.Error()
	}
	writeJSON(w, http.StatusOK, body, h.logger)
}
