package handler

import (
	"encoding/json"
	"net/http"

	"github.com/josh-kwaku/bakery-pos/internal/domain"
	"github.com/josh-kwaku/bakery-pos/internal/logging"
)

type customerLister interface {
	Customers() ([]domain.Customer, error)
}

type CustomerHandler struct {
	customers customerLister
}

func NewCustomerHandler(customers customerLister) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type customerResponse struct {
	Nombre    string      `json:"nombre"`
	Descuento json.Number `json:"descuento"`
}

// List returns the directory keyed by customer key, the shape the till UI
// loads into its customer picker.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.Customers()
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list customers", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	resp := make(map[string]customerResponse, len(customers))
	for _, c := range customers {
		resp[c.Key] = customerResponse{
			Nombre:    c.Name,
			Descuento: json.Number(c.Discount.String()),
		}
	}
	RespondJSON(w, http.StatusOK, resp)
}
