package main

import (
	"context"
	"decoder-diff/internal/diff/raster"
	"decoder-diff/internal/visual"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitNames(t *testing.T) {
	got := splitNames(" text_32, ,stripes_64,")
	if diff := cmp.Diff([]string{"text_32", "stripes_64"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCallback(t *testing.T) {
	summary := &visual.Summary{
		Outcomes: []visual.Outcome{
			{Case: visual.Case{Name: "text_32"}, Kind: visual.Compared, Result: &raster.ColorResult{TotalPixels: 1, Passed: true}},
			{Case: visual.Case{Name: "text_64"}, Kind: visual.Errored, Err: errors.New("unexpected EOF")},
			{Case: visual.Case{Name: "stripes_32"}, Kind: visual.Skipped},
		},
		Passed: 1,
		Total:  1,
	}

	var received SummaryOutput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("Expected PATCH, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	j, err := json.Marshal(newSummaryOutput(summary))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := callback(context.Background(), server.URL, j); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := SummaryOutput{
		Passed: 1,
		Total:  1,
		Cases: []CaseOutput{
			{Name: "text_32", Status: "compared", Result: &raster.ColorResult{TotalPixels: 1, Passed: true}},
			{Name: "text_64", Status: "errored", Error: "unexpected EOF"},
			{Name: "stripes_32", Status: "skipped"},
		},
	}
	if diff := cmp.Diff(want, received); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCallbackErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	if err := callback(context.Background(), server.URL, []byte("{}")); err == nil {
		t.Errorf("Expected error for 400 response")
	}
}
