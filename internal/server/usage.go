package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tanmodi/oorja-backend/internal/common"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportUsage handles GET /api/v1/usage/export?from=YYYY-MM-DD&to=YYYY-MM-DD
// and streams the ledger window as an XLSX workbook.
func (s *Server) exportUsage(c *gin.Context) {
	if s.exports == nil {
		fail(c, http.StatusNotFound, "usage ledger is not configured")
		return
	}

	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if to != nil {
		// Inclusive end of day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	buf, err := s.exports.ExportUsageXLSX(c.Request.Context(), from, to)
	if err != nil {
		fail(c, common.HTTPStatus(err), err.Error())
		return
	}

	filename := fmt.Sprintf("usage-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf)
}

func parseDateParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", v)
	}
	return &t, nil
}
