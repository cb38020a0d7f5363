package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GFattehallah/cmhe-manager/internal/domain/expense"
	"github.com/GFattehallah/cmhe-manager/internal/domain/invoice"
	"github.com/GFattehallah/cmhe-manager/internal/importer"
)

func (h *Handler) listInvoices(c *gin.Context) {
	respondOK(c, h.billing.ListInvoices(c.Request.Context()))
}

func (h *Handler) saveInvoice(c *gin.Context) {
	var inv invoice.Invoice
	if !bindJSON(c, &inv) {
		return
	}

	saved, err := h.billing.SaveInvoice(c.Request.Context(), inv)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, saved)
}

func (h *Handler) deleteInvoice(c *gin.Context) {
	if err := h.billing.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) listExpenses(c *gin.Context) {
	respondOK(c, h.billing.ListExpenses(c.Request.Context()))
}

func (h *Handler) saveExpense(c *gin.Context) {
	var e expense.Expense
	if !bindJSON(c, &e) {
		return
	}

	saved, err := h.billing.SaveExpense(c.Request.Context(), e)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, saved)
}

func (h *Handler) deleteExpense(c *gin.Context) {
	if err := h.billing.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": c.Param("id")})
}

// monthlySummary aggregates revenue and expenses for the requested month,
// defaulting to the current one.
func (h *Handler) monthlySummary(c *gin.Context) {
	now := time.Now()
	year := now.Year()
	month := now.Month()

	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "year must be a number")
			return
		}
		year = v
	}
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			respondError(c, http.StatusBadRequest, "month must be between 1 and 12")
			return
		}
		month = time.Month(v)
	}

	respondOK(c, h.billing.Summary(c.Request.Context(), year, month))
}

func (h *Handler) importRevenues(c *gin.Context) {
	headers, rows, ok := h.readTabularUpload(c)
	if !ok {
		return
	}

	report, err := h.importer.ImportRevenues(c.Request.Context(), headers, rows)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, report)
}

func (h *Handler) importExpenses(c *gin.Context) {
	headers, rows, ok := h.readTabularUpload(c)
	if !ok {
		return
	}

	report, err := h.importer.ImportExpenses(c.Request.Context(), headers, rows)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, report)
}

func (h *Handler) exportInvoices(c *gin.Context) {
	headers, rows := importer.InvoicesTable(h.billing.ListInvoices(c.Request.Context()))
	h.sendCSV(c, "revenus-"+time.Now().Format("2006-01-02")+".csv", headers, rows)
}

func (h *Handler) exportExpenses(c *gin.Context) {
	headers, rows := importer.ExpensesTable(h.billing.ListExpenses(c.Request.Context()))
	h.sendCSV(c, "depenses-"+time.Now().Format("2006-01-02")+".csv", headers, rows)
}
