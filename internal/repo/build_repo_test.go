package repo

import (
	"testing"

	"github.com/shaiso/Synthflow/internal/domain"
)

func TestDecodeBuildJSON(t *testing.T) {
	var b domain.BuildRecord
	stages := []byte(`{"csim":true,"synth":true}`)
	report := []byte(`{"project_dir":"/p","project_name":"myproject","csynth":{"best_latency":"9"}}`)

	if err := decodeBuildJSON(&b, stages, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Stages != domain.DefaultStageFlags() {
		t.Errorf("unexpected stages %+v", b.Stages)
	}
	if b.Report == nil || b.Report.CSynth == nil || b.Report.CSynth.BestLatency != "9" {
		t.Errorf("unexpected report %+v", b.Report)
	}
}

func TestDecodeBuildJSON_NullReport(t *testing.T) {
	var b domain.BuildRecord
	if err := decodeBuildJSON(&b, []byte(`{}`), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Report != nil {
		t.Error("report should stay nil for NULL column")
	}
}

func TestDecodeBuildJSON_Broken(t *testing.T) {
	var b domain.BuildRecord
	if err := decodeBuildJSON(&b, []byte(`{`), nil); err == nil {
		t.Error("expected error for malformed stages")
	}
}

func TestNullString(t *testing.T) {
	if nullString("") != nil {
		t.Error("empty string should map to NULL")
	}
	if v := nullString("x"); v == nil || *v != "x" {
		t.Error("non-empty string should be kept")
	}
}

func TestNewBuildFilter(t *testing.T) {
	f := NewBuildFilter(" Vivado ", "failed", 10, 20)

	if f.Backend != "vivado" {
		t.Errorf("backend should be lowercased, got %q", f.Backend)
	}
	if f.Status != domain.BuildStatusFailed {
		t.Errorf("status should be uppercased, got %q", f.Status)
	}
	if f.Limit != 10 || f.Offset != 20 {
		t.Errorf("unexpected paging %+v", f)
	}

	if empty := NewBuildFilter("", "", 0, 0); empty.Backend != "" || empty.Status != "" {
		t.Errorf("empty input should leave the filter open, got %+v", empty)
	}
}
