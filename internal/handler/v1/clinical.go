package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/GFattehallah/cmhe-manager/internal/domain/appointment"
	"github.com/GFattehallah/cmhe-manager/internal/domain/consultation"
)

func (h *Handler) listAppointments(c *gin.Context) {
	respondOK(c, h.clinical.ListAppointments(c.Request.Context()))
}

func (h *Handler) saveAppointment(c *gin.Context) {
	var a appointment.Appointment
	if !bindJSON(c, &a) {
		return
	}

	saved, err := h.clinical.SaveAppointment(c.Request.Context(), a)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, saved)
}

func (h *Handler) deleteAppointment(c *gin.Context) {
	if err := h.clinical.DeleteAppointment(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) listConsultations(c *gin.Context) {
	respondOK(c, h.clinical.ListConsultations(c.Request.Context()))
}

func (h *Handler) saveConsultation(c *gin.Context) {
	var cons consultation.Consultation
	if !bindJSON(c, &cons) {
		return
	}

	saved, err := h.clinical.SaveConsultation(c.Request.Context(), cons)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, saved)
}

func (h *Handler) deleteConsultation(c *gin.Context) {
	if err := h.clinical.DeleteConsultation(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": c.Param("id")})
}

type suggestRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// suggestPrescriptions is best-effort: an unreachable or misconfigured
// assistant yields an empty list, never an error.
func (h *Handler) suggestPrescriptions(c *gin.Context) {
	var req suggestRequest
	if !bindJSON(c, &req) {
		return
	}
	respondOK(c, gin.H{"suggestions": h.suggest.Suggest(c.Request.Context(), req.Prompt)})
}
