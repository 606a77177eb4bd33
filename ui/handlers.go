package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ksboot/app"
	"ksboot/domain/core"
	"ksboot/domain/stats"
	apperrors "ksboot/internal/errors"
	"ksboot/internal/report"
	"ksboot/models"
)

// runTestRequest is the JSON body for POST /api/tests
type runTestRequest struct {
	Data1       []float64 `json:"data1"`
	Data2       []float64 `json:"data2"`
	Alternative string    `json:"alternative"`

	RespectRatio *bool `json:"respect_ratio,omitempty"`
	Replacement  *bool `json:"replacement,omitempty"`
	FixedSize    int   `json:"fixed_size,omitempty"`

	Iterations int    `json:"iterations,omitempty"`
	Seed       int64  `json:"seed,omitempty"`
	Workers    int    `json:"workers,omitempty"`
	ExportName string `json:"export_name,omitempty"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) handleRunTest(w http.ResponseWriter, r *http.Request) {
	var body runTestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeError(w, http.StatusBadRequest, apperrors.InvalidInput("malformed request body"))
		return
	}

	req := app.TestRequest{
		Data1:       body.Data1,
		Data2:       body.Data2,
		Alternative: body.Alternative,
		Iterations:  body.Iterations,
		Seed:        body.Seed,
		Workers:     body.Workers,
		ExportName:  body.ExportName,
	}
	if body.RespectRatio != nil || body.Replacement != nil || body.FixedSize != 0 {
		policy := stats.ResamplingPolicy{
			FixedSize:  body.FixedSize,
			Iterations: body.Iterations,
		}
		if body.RespectRatio != nil {
			policy.RespectRatio = *body.RespectRatio
		}
		if body.Replacement != nil {
			policy.Replacement = *body.Replacement
		}
		req.Policy = &policy
	}

	record, err := a.service.RunTest(r.Context(), req)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

func (a *App) handleGetTest(w http.ResponseWriter, r *http.Request) {
	record, err := a.loadTest(w, r)
	if record == nil || err != nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

func (a *App) handleListTests(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	records, err := a.service.ListTests(r.Context(), limit, offset)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tests": records,
		"count": len(records),
	})
}

func (a *App) handleTestReport(w http.ResponseWriter, r *http.Request) {
	record, err := a.loadTest(w, r)
	if record == nil || err != nil {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.HTML(record))
}

func (a *App) loadTest(w http.ResponseWriter, r *http.Request) (record *models.TestRecord, err error) {
	id := chi.URLParam(r, "id")
	testID, err := core.ParseTestID(id)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, apperrors.InvalidInput("malformed test id"))
		return nil, err
	}

	record, err = a.service.GetTest(r.Context(), core.ID(testID))
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return nil, err
	}
	return record, nil
}

func (a *App) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}

func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidAlternative, apperrors.CodeInvalidResamplingPolicy,
		apperrors.CodeEmptySample, apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
