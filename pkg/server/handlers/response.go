package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	ruleErrors "github.com/anushka81/Rule-Engine-with-AST/pkg/rules/errors"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/service"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/store"
)

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("invalid request body")

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, ruleErrors.ErrParse),
		errors.Is(err, ruleErrors.ErrCombine):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrRuleNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, ruleErrors.ErrEvaluation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads one JSON object from the request body. Numbers in data
// records decode as json.Number, keeping their original text.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the status for err. message is the summary shown
// to users; server errors hide their cause.
func writeError(w http.ResponseWriter, message string, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Message: message, Error: err.Error()}

	switch status {
	case http.StatusNotFound:
		resp.Message = "Rule not found"
	case http.StatusConflict:
		resp.Message = "Rule name already exists"
	case http.StatusRequestEntityTooLarge:
		resp.Message = "Request body too large"
	case http.StatusInternalServerError:
		resp.Error = "internal error"
	}

	if ruleErr, ok := ruleErrors.AsError(err); ok {
		resp.Details = &ErrorDetail{
			Type:       string(ruleErr.Type),
			Segment:    ruleErr.Segment,
			Index:      ruleErr.Index,
			Suggestion: ruleErr.Suggestion,
		}
	}

	writeJSON(w, status, resp)
}
