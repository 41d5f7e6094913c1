package http

import (
	"net/http"

	"github.com/ordersys/tableside/internal/interfaces"
)

type MenuHandler struct {
	service interfaces.MenuService
}

func NewMenuHandler(service interfaces.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.Items())
}
