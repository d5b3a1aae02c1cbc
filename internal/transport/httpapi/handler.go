package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/service/customer"
	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/service/order"
)

// Handler связывает HTTP-маршруты с сервисами заказов и клиентов.
type Handler struct {
	orders    *order.Service
	customers *customer.Service
	logger    *log.Entry
}

// NewHandler собирает mux со всеми маршрутами API.
func NewHandler(orders *order.Service, customers *customer.Service, logger *log.Entry) http.Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	h := &Handler{
		orders:    orders,
		customers: customers,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("POST /api/orders/{id}/items", h.addOrderItem)
	mux.HandleFunc("POST /api/orders/{id}/confirm", h.confirmOrder)
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.cancelOrder)
	mux.HandleFunc("GET /api/customers", h.listCustomers)
	mux.HandleFunc("GET /api/customers/{id}", h.getCustomer)
	mux.HandleFunc("PUT /api/customers/{id}", h.updateCustomerProfile)
	mux.HandleFunc("PUT /api/customers/{id}/type", h.changeCustomerType)
	mux.HandleFunc("DELETE /api/customers/{id}", h.deleteCustomer)

	return mux
}

type createOrderRequest struct {
	CustomerID string `json:"customer_id"`
	Customer   *struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"customer,omitempty"`
}

type addItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int32  `json:"quantity"`
}

type updateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type changeTypeRequest struct {
	CustomerType string `json:"customer_type"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !h.decode(w, r, &req) {
		return
	}

	var hint order.CustomerHint
	if req.Customer != nil {
		hint.Name = req.Customer.Name
		hint.Email = req.Customer.Email
	}

	view, err := h.orders.Create(r.Context(), req.CustomerID, hint)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "customer_id query parameter is required"})
		return
	}

	views, err := h.orders.ListByCustomer(r.Context(), customerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *Handler) addOrderItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, err := h.orders.AddItem(r.Context(), r.PathValue("id"), req.VariantID, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	view, err := h.orders.Confirm(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	view, err := h.orders.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	views, err := h.customers.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	view, err := h.customers.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) updateCustomerProfile(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, err := h.customers.UpdateProfile(r.Context(), r.PathValue("id"), req.Name, req.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) changeCustomerType(w http.ResponseWriter, r *http.Request) {
	var req changeTypeRequest
	if !h.decode(w, r, &req) {
		return
	}

	view, err := h.customers.ChangeType(r.Context(), r.PathValue("id"), req.CustomerType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// writeError транслирует доменные ошибки в HTTP-статусы. Внутренние
// ошибки наружу не раскрываются.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsNotFound(err):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case domain.IsInvalidInput(err):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrOrderVersionConflict):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		h.logger.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Warn("failed to encode response body")
	}
}
