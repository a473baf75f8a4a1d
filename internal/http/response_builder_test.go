package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusAccepted).
		Header("X-Test", "yes").
		JSON(map[string]string{"status": "queued"}).
		Write(w)

	if w.Code != http.StatusAccepted {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusAccepted)
	}
	if got := w.Header().Get("X-Test"); got != "yes" {
		t.Errorf("X-Test = %q, want yes", got)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "queued" {
		t.Errorf("body = %v", body)
	}
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent().Write(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Body = %q, want empty", w.Body.String())
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		builder    *ResponseBuilder
		wantStatus int
		wantBody   ErrorBody
	}{
		{"bad request", BadRequestError("Invalid id."), http.StatusBadRequest, ErrorBody{Error: "Invalid id."}},
		{"not found", NotFoundError("Record not found."), http.StatusNotFound, ErrorBody{Error: "Record not found."}},
		{"internal", InternalServerError("Unexpected error."), http.StatusInternalServerError, ErrorBody{Error: "Unexpected error."}},
		{"validation", ValidationFailed("amount", "Enter an amount."), http.StatusUnprocessableEntity, ErrorBody{Error: "Enter an amount.", Field: "amount"}},
		{"created", Created(ErrorBody{Error: "x"}), http.StatusCreated, ErrorBody{Error: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			var got ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if got != tt.wantBody {
				t.Errorf("body = %+v, want %+v", got, tt.wantBody)
			}
		})
	}
}
