package sales

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

// MountRoutes registers sale routes. Checkout is open to cashiers;
// everything else, including voids and reports, is owner-only.
func (h *Handler) MountRoutes(r chi.Router, mw auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(shared.RoleOwner, shared.RoleCashier))
			r.Post("/", h.create)
		})
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(shared.RoleOwner))
			r.Get("/", h.list)
			r.Get("/report", h.report)
			r.Get("/report/export", h.exportReport)
			r.Get("/profit/date", h.profitByDate)
			r.Get("/profit/product", h.profitByProduct)
			r.Get("/cashier/{userId}", h.listByCashier)
			r.Get("/{id}", h.get)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.void)
		})
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.Fail(w, http.StatusUnauthorized, "access token missing")
		return
	}
	var form SaleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	sale, err := h.service.Create(r.Context(), identity, form)
	if err != nil {
		h.logger.Error("create sale", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusCreated, "sale created successfully", sale)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "sales retrieved successfully", result)
}

func (h *Handler) listByCashier(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid user id")
		return
	}
	result, err := h.service.ListByCashier(r.Context(), userID,
		r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "sales retrieved successfully", result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	sale, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "sale retrieved successfully", sale)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	var form SaleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	sale, err := h.service.Edit(r.Context(), id, form)
	if err != nil {
		h.logger.Error("edit sale", slog.Any("error", err), slog.Int64("sale_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "sale updated successfully", sale)
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid sale id")
		return
	}
	if err := h.service.Void(r.Context(), id); err != nil {
		h.logger.Error("void sale", slog.Any("error", err), slog.Int64("sale_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "sale deleted successfully", nil)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Report(r.Context(), r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "sales report retrieved successfully", rep)
}

func (h *Handler) profitByDate(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.ProfitByDate(r.Context(), r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "profit report retrieved successfully", rep)
}

func (h *Handler) profitByProduct(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.ProfitByProduct(r.Context(), r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, http.StatusOK, "profit report retrieved successfully", rep)
}

func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Report(r.Context(), r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	wb, err := export.Workbook(exportReport(rep))
	if err != nil {
		h.logger.Error("export sales report", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer wb.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="sales-report.xlsx"`)
	if err := wb.Write(w); err != nil {
		h.logger.Error("write sales workbook", slog.Any("error", err))
	}
}

func exportReport(rep *Report) export.Report {
	docs := make([]export.Document, 0, len(rep.Sales))
	for _, s := range rep.Sales {
		doc := export.Document{
			ID:           s.ID,
			Date:         s.Date,
			Counterparty: s.UserName,
			Total:        s.Total,
		}
		for _, l := range s.Lines {
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
		Title:             "Sales Report",
		Sheet:             "Sales",
		CounterpartyLabel: "Cashier",
		StartDate:         rep.StartDate,
		EndDate:           rep.EndDate,
		Documents:         docs,
		GrandTotal:        rep.GrandTotal,
	}
}
