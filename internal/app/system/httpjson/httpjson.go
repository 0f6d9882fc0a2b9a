// Package httpjson writes JSON responses and maps apperr kinds to HTTP
// status codes. It is the only place that mapping lives.
package httpjson

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/app/system/inputval"
	"go.uber.org/zap"
)

// MaxBodyBytes bounds request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { Write(w, http.StatusOK, v) }

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) { Write(w, http.StatusCreated, v) }

// Status maps an error kind to its HTTP status.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput, apperr.KindUnsupportedContentType:
		return http.StatusBadRequest
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState, apperr.KindDuplicateReview, apperr.KindDuplicateReport:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error writes err as an ErrorBody. Errors without a known kind are logged
// and reported with a generic message.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := Status(kind)
	body := ErrorBody{Kind: kind.String()}

	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		body.Kind = "Internal"
		body.Error = "internal error"
		Write(w, status, body)
		return
	}

	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Msg != "" {
		body.Error = ae.Msg
	} else {
		body.Error = kind.String()
	}
	Write(w, status, body)
}

// Invalid writes a 400 listing each failed field.
func Invalid(w http.ResponseWriter, res *inputval.Result) {
	body := ErrorBody{
		Error:  res.First(),
		Kind:   apperr.KindInvalidInput.String(),
		Fields: make(map[string]string, len(res.Errors)),
	}
	for _, fe := range res.Errors {
		if fe.Field == "" {
			continue
		}
		if _, seen := body.Fields[fe.Field]; !seen {
			body.Fields[fe.Field] = fe.Message
		}
	}
	Write(w, http.StatusBadRequest, body)
}

// Decode reads a JSON request body into v. Malformed or oversized bodies
// are InvalidInput.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	const op = "httpjson.Decode"
	if r.Body == nil {
		return apperr.InvalidInput(op, "request body is required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.InvalidInput(op, "request body is required")
		}
		return apperr.E(apperr.KindInvalidInput, op, "malformed JSON body")
	}
	return nil
}
