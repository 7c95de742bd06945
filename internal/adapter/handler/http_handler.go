package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/minishop/minishop/internal/core/domain"
	"github.com/minishop/minishop/internal/core/service"
)

type HTTPHandler struct {
	inventory *service.InventoryService
	purchases *service.PurchaseService
	reports   *service.ReportService
	catalog   *service.CatalogService
	log       logrus.FieldLogger
}

func NewHTTPHandler(
	inventory *service.InventoryService,
	purchases *service.PurchaseService,
	reports *service.ReportService,
	catalog *service.CatalogService,
	log logrus.FieldLogger,
) *HTTPHandler {
	return &HTTPHandler{
		inventory: inventory,
		purchases: purchases,
		reports:   reports,
		catalog:   catalog,
		log:       log,
	}
}

// Register mounts all routes. The purchase endpoint goes through the rate
// limiter; everything else is unthrottled.
func (h *HTTPHandler) Register(mux *http.ServeMux, purchaseLimit http.HandlerFunc) {
	mux.HandleFunc("POST /api/purchases", purchaseLimit)
	mux.HandleFunc("GET /api/products", h.SearchProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("POST /api/products", h.AddProduct)
	mux.HandleFunc("PUT /api/products/{id}/stock", h.UpdateStock)
	mux.HandleFunc("GET /api/reports/sales", h.SalesReport)
	mux.HandleFunc("GET /health", h.HealthCheck)
}

type createPurchaseRequest struct {
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
}

func (h *HTTPHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.CustomerID == "" || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "customer_id and product_id are required"})
		return
	}

	purchase, err := h.purchases.CreatePurchase(r.Context(), req.CustomerID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, purchase)
}

func (h *HTTPHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.SearchFilter{Keyword: q.Get("keyword")}

	if v := q.Get("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid min_price"})
			return
		}
		filter.MinPrice = &d
	}
	if v := q.Get("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid max_price"})
			return
		}
		filter.MaxPrice = &d
	}

	summaries, err := h.inventory.SearchProducts(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.inventory.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type addProductRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	StockQty    int             `json:"stock_qty"`
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	product, err := h.catalog.AddProduct(r.Context(), service.AddProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		StockQty:    req.StockQty,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

type updateStockRequest struct {
	StockQty int `json:"stock_qty"`
}

func (h *HTTPHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req updateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.catalog.UpdateStock(r.Context(), r.PathValue("id"), req.StockQty); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

const reportDateLayout = "2006-01-02"

func (h *HTTPHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter domain.ReportFilter

	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(reportDateLayout, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid start_date, expected YYYY-MM-DD"})
			return
		}
		filter.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(reportDateLayout, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid end_date, expected YYYY-MM-DD"})
			return
		}
		filter.EndDate = &t
	}
	if v := q.Get("min_total"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid min_total"})
			return
		}
		filter.MinTotal = &d
	}

	records, err := h.reports.SalesReport(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error     string `json:"error"`
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available,omitempty"`
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientStockError

	switch {
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:     insufficient.Error(),
			Requested: insufficient.Requested,
			Available: insufficient.Available,
		})
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrCustomerNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrTxConflict):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "temporary conflict, retry the request"})
	default:
		h.log.WithError(err).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
