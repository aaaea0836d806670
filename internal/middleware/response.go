package middleware

import (
	"net/http"

	"github.com/folio-labs/portfolio-server/internal/httputil"
)

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}
