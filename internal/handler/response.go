package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/folio-labs/portfolio-server/internal/config"
	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/httputil"
)

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// decodeJSON reads a JSON request body of at most config.MaxJSONBodySize
// bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, config.MaxJSONBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.PayloadTooLarge(maxErr.Limit)
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("body", "request body is empty")
		default:
			return apperrors.InvalidInput("body", "malformed JSON")
		}
	}
	return nil
}
