package v1

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// remoteStatus reports how the remote backend credentials were judged at
// startup, so the client can explain why the app is running local-only.
func (h *Handler) remoteStatus(c *gin.Context) {
	respondOK(c, gin.H{
		"configured":     h.remoteDiag.Configured(),
		"url_valid":      h.remoteDiag.URLValid,
		"key_valid":      h.remoteDiag.KeyValid,
		"wrong_provider": h.remoteDiag.WrongProvider,
		"reason":         h.remoteDiag.Reason,
	})
}

func (h *Handler) exportBackup(c *gin.Context) {
	doc := h.backup.Export(c.Request.Context())
	filename := "sauvegarde-cabinet-" + time.Now().Format("2006-01-02") + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, doc)
}

// importBackup replays a backup document through the normal save path. The
// operation is additive: existing records that the document does not mention
// are left untouched.
func (h *Handler) importBackup(c *gin.Context) {
	var data []byte
	var err error

	if file, _, ferr := c.Request.FormFile("file"); ferr == nil {
		defer file.Close()
		data, err = io.ReadAll(file)
	} else {
		data, err = io.ReadAll(c.Request.Body)
	}
	if err != nil {
		respondError(c, http.StatusBadRequest, "reading backup upload failed")
		return
	}

	restored, err := h.backup.Import(c.Request.Context(), data)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"restored": restored})
}
