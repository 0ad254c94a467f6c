package purchases

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kasapos/kasapos/internal/auth"
	"github.com/kasapos/kasapos/internal/export"
	"github.com/kasapos/kasapos/internal/platform/httpx"
	"github.com/kasapos/kasapos/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers purchase routes. The whole surface is
// owner-only; cashiers never touch goods receipts.
func (h *Handler) MountRoutes(r chi.Router, mw auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate, mw.RequireRole(shared.RoleOwner))
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/report", h.report)
		r.Get("/report/export", h.exportReport)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.void)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.Fail(w, http.StatusUnauthorized, "access token missing")
		return
	}
	var form PurchaseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.Create(r.Context(), identity, form)
	if err != nil {
		h.logger.Error("create purchase", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusCreated, "purchase created successfully", p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "purchases retrieved successfully", result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid purchase id")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "purchase retrieved successfully", p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid purchase id")
		return
	}
	var form PurchaseForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.service.Edit(r.Context(), id, form)
	if err != nil {
		h.logger.Error("edit purchase", slog.Any("error", err), slog.Int64("purchase_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "purchase updated successfully", p)
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid purchase id")
		return
	}
	if err := h.service.Void(r.Context(), id); err != nil {
		h.logger.Error("void purchase", slog.Any("error", err), slog.Int64("purchase_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "purchase deleted successfully", nil)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Report(r.Context(), r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "purchase report retrieved successfully", rep)
}

func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Report(r.Context(), r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	wb, err := export.Workbook(exportReport(rep))
	if err != nil {
		h.logger.Error("export purchase report", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer wb.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="purchase-report.xlsx"`)
	if err := wb.Write(w); err != nil {
		h.logger.Error("write purchase workbook", slog.Any("error", err))
	}
}

func exportReport(rep *Report) export.Report {
	docs := make([]export.Document, 0, len(rep.Purchases))
	for _, p := range rep.Purchases {
		doc := export.Document{
			ID:           p.ID,
			Date:         p.Date,
			Counterparty: p.SupplierName,
			Total:        p.Total,
		}
		for _, l := range p.Lines {
			doc.Lines = append(doc.Lines, export.DocumentLine{
				ProductName: l.ProductName,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				Subtotal:    l.Subtotal,
			})
		}
		docs = append(docs, doc)
	}
	return export.Report{
		Title:             "Purchase Report",
		Sheet:             "Purchases",
		CounterpartyLabel: "Supplier",
		StartDate:         rep.StartDate,
		EndDate:           rep.EndDate,
		Documents:         docs,
		GrandTotal:        rep.GrandTotal,
	}
}
