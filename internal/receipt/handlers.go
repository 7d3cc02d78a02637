package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/zombor/sales-tax/internal/tax"
)

// maxBodySize caps request bodies at 1MB
const maxBodySize = int64(1 << 20)

// cartRequest is the JSON form of a cart: either explicit lines or raw text
type cartRequest struct {
	Lines []string `json:"lines"`
	Cart  string   `json:"cart"`
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSONError writes {"error": message} with the given status
func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeRenderError maps parse and validation failures to 400
func writeRenderError(w http.ResponseWriter, err error) {
	if errors.Is(err, tax.ErrMalformedInput) || errors.Is(err, tax.ErrNegativeValue) {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	slog.Error("Error rendering receipt", "error", err)
	writeJSONError(w, "Internal server error", http.StatusInternalServerError)
}

// readBody reads the request body, answering 413 when it is too large
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSONError(w, "Request body is too large. Maximum size is 1MB.", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		slog.Error("Error reading request body", "error", err)
		writeJSONError(w, "Error reading request body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

// cartText extracts the cart text from a plain text or JSON body
func cartText(r *http.Request, body []byte) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return string(body), nil
	}

	var req cartRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", err
	}
	if len(req.Lines) > 0 {
		return strings.Join(req.Lines, "\n"), nil
	}
	return req.Cart, nil
}

// handleRenderReceipt renders a single cart as a JSON receipt
func (s *Server) handleRenderReceipt(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	text, err := cartText(r, body)
	if err != nil {
		writeJSONError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	receipt, err := s.service.RenderCart(text)
	if err != nil {
		writeRenderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(receipt); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleRenderBatch renders every cart of a batch source as plain text
func (s *Server) handleRenderBatch(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	out, err := s.service.RenderBatch(string(body))
	if err != nil {
		writeRenderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, out)
}

// handleHealth reports that the server is up
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}
