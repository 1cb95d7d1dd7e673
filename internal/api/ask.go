package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/saketh648/talk2db/internal/chart"
	"github.com/saketh648/talk2db/internal/index"
	"github.com/saketh648/talk2db/internal/observability"
	"github.com/saketh648/talk2db/internal/store"
)

type askRequest struct {
	Question string `json:"question"`
}

type askColumn struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type askResponse struct {
	Success  bool        `json:"success"`
	Attempts int         `json:"attempts"`
	SQL      string      `json:"sql,omitempty"`
	Columns  []askColumn `json:"columns"`
	Rows     [][]any     `json:"rows"`
	Chart    *chart.Spec `json:"chart"`
	Error    string      `json:"error,omitempty"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Agent == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "AGENT_NOT_CONFIGURED", "question agent is not configured", false, nil)
		return
	}

	var request askRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid ask request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.Question) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}

	outcome, err := deps.Agent.Ask(r.Context(), request.Question)
	if err != nil {
		var unavailable *index.UnavailableError
		if errors.As(err, &unavailable) {
			writeError(r.Context(), w, http.StatusServiceUnavailable, "INDEX_UNAVAILABLE", err.Error(), true, nil)
			return
		}
		writeError(r.Context(), w, http.StatusInternalServerError, "ASK_FAILED", err.Error(), true, nil)
		return
	}

	response := askResponse{
		Success:  outcome.Success,
		Attempts: outcome.Attempts,
		SQL:      outcome.SQL,
		Columns:  columnsForResponse(outcome.Result.Columns),
		Rows:     outcome.Result.Rows,
		Error:    outcome.LastError,
	}
	if outcome.Success {
		if spec, ok := chart.Classify(request.Question, outcome.Result); ok {
			response.Chart = &spec
			observability.ObserveChart(string(spec.Kind))
		} else {
			observability.ObserveChart("none")
		}
	}
	if response.Rows == nil {
		response.Rows = [][]any{}
	}
	writeJSON(w, http.StatusOK, response)
}

func columnsForResponse(columns []store.Column) []askColumn {
	out := make([]askColumn, 0, len(columns))
	for _, column := range columns {
		out = append(out, askColumn{Name: column.Name, Kind: string(column.Kind)})
	}
	return out
}
