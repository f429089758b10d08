package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONWritesEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	OK(NewWriter(rr), req, "logged out")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content type = %q", ct)
	}
	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.OK || env.Message != "logged out" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestOKOmitsEmptyMessage(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	OK(NewWriter(rr), req, "")

	var raw map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, present := raw["message"]; present {
		t.Fatalf("empty message not omitted: %v", raw)
	}
	if raw["ok"] != true {
		t.Fatalf("ok flag missing: %v", raw)
	}
}

func TestFailSetsStatusAndFalseFlag(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	Fail(NewWriter(rr), req, http.StatusConflict, "user already exist")

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d", rr.Code)
	}
	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.OK || env.Message != "user already exist" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestWriterSingleAssignment(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := NewWriter(rr)

	Fail(w, req, http.StatusUnauthorized, "invalid password")
	// A second result for the same request is dropped.
	OK(w, req, "should not appear")

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}
	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.OK || env.Message != "invalid password" {
		t.Fatalf("first result overwritten: %+v", env)
	}
}

func TestWriterWrittenTracksDirectWrites(t *testing.T) {
	w := NewWriter(httptest.NewRecorder())
	if w.Written() {
		t.Fatal("fresh writer reports written")
	}
	_, _ = w.Write([]byte("x"))
	if !w.Written() {
		t.Fatal("write not tracked")
	}

	w = NewWriter(httptest.NewRecorder())
	w.WriteHeader(http.StatusTeapot)
	if !w.Written() {
		t.Fatal("header write not tracked")
	}
}
