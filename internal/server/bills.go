package server

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tanmodi/oorja-backend/constants"
	"github.com/tanmodi/oorja-backend/internal/common"
)

// intake validates the multipart upload and copies it into scratch storage.
// Returns the scratch path and the original filename.
func (s *Server) intake(c *gin.Context) (string, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", "", common.NewAppError("UPLOAD_REJECTED", "multipart field 'file' is required", common.ErrUploadRejected)
	}
	if fh.Size > constants.MaxUploadBytes {
		return "", "", common.NewAppError("UPLOAD_REJECTED",
			fmt.Sprintf("file exceeds %d MiB limit", constants.MaxUploadBytes>>20), common.ErrUploadRejected)
	}
	if !acceptableType(fh) {
		return "", "", common.NewAppError("UPLOAD_REJECTED", "only application/pdf uploads are accepted", common.ErrUploadRejected)
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", common.NewAppError("UPLOAD_ERROR", "open upload", err)
	}
	defer src.Close()

	path, err := s.store.Save(src, fh.Filename)
	if err != nil {
		return "", "", common.NewAppError("UPLOAD_ERROR", "store upload", err)
	}
	return path, fh.Filename, nil
}

func acceptableType(fh *multipart.FileHeader) bool {
	ct := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == constants.PDFMimeType {
		return true
	}
	// Some clients omit the part content type; fall back to the extension.
	return ct == "" && constants.IsAllowedExt(filepath.Ext(fh.Filename))
}

// extractBill handles POST /api/v1/bills/extract: one upload, one model
// (optional "model" form value, default model otherwise).
func (s *Server) extractBill(c *gin.Context) {
	path, name, err := s.intake(c)
	if err != nil {
		fail(c, common.HTTPStatus(err), err.Error())
		return
	}

	res, err := s.pipe.ExtractBill(c.Request.Context(), path, name, c.PostForm("model"))
	if err != nil {
		fail(c, common.HTTPStatus(err), err.Error())
		return
	}

	data := make(map[string]any, len(res.Fields)+1)
	for k, v := range res.Fields {
		data[k] = v
	}
	data["filename"] = name

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"data":    data,
		"usage":   res.Usage,
		"pricing": res.Pricing,
	})
}

// compareBill handles POST /api/v1/bills/compare: one upload, every
// configured model (or a comma-separated "models" form value), sequentially.
func (s *Server) compareBill(c *gin.Context) {
	path, name, err := s.intake(c)
	if err != nil {
		fail(c, common.HTTPStatus(err), err.Error())
		return
	}

	var modelIDs []string
	if raw := strings.TrimSpace(c.PostForm("models")); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				modelIDs = append(modelIDs, id)
			}
		}
	}

	results, err := s.pipe.CompareBill(c.Request.Context(), path, name, modelIDs)
	if err != nil {
		fail(c, common.HTTPStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"filename": name,
		"results":  results,
	})
}
