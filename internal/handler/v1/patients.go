package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GFattehallah/cmhe-manager/internal/domain/patient"
	"github.com/GFattehallah/cmhe-manager/internal/importer"
)

func (h *Handler) listPatients(c *gin.Context) {
	respondOK(c, h.patients.ListPatients(c.Request.Context()))
}

func (h *Handler) savePatient(c *gin.Context) {
	var p patient.Patient
	if !bindJSON(c, &p) {
		return
	}

	saved, err := h.patients.SavePatient(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, saved)
}

func (h *Handler) deletePatient(c *gin.Context) {
	if err := h.patients.DeletePatient(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": c.Param("id")})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) deletePatientsBulk(c *gin.Context) {
	var req bulkDeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.patients.DeletePatients(c.Request.Context(), req.IDs); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": len(req.IDs)})
}

// importPatients accepts a multipart "file" field holding a CSV export and
// runs it through the reconciler.
func (h *Handler) importPatients(c *gin.Context) {
	headers, rows, ok := h.readTabularUpload(c)
	if !ok {
		return
	}

	report, err := h.importer.ImportPatients(c.Request.Context(), headers, rows)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, report)
}

func (h *Handler) exportPatients(c *gin.Context) {
	headers, rows := importer.PatientsTable(h.patients.ListPatients(c.Request.Context()))
	h.sendCSV(c, "patients-"+time.Now().Format("2006-01-02")+".csv", headers, rows)
}

// readTabularUpload parses the uploaded file; failure to parse at all is
// the one fatal import error and produces no state change.
func (h *Handler) readTabularUpload(c *gin.Context) ([]string, []importer.Row, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing file upload")
		return nil, nil, false
	}
	defer file.Close()

	headers, rows, err := importer.ReadCSV(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is not readable as tabular data: "+err.Error())
		return nil, nil, false
	}
	return headers, rows, true
}

func (h *Handler) sendCSV(c *gin.Context, filename string, headers []string, rows [][]string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := importer.WriteCSV(c.Writer, headers, rows); err != nil {
		h.log.Error("streaming csv export failed")
	}
}
