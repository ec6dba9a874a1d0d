package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/report"
)

func newRecord(dir string) *domain.BuildRecord {
	rec := domain.NewBuildRecord("symbolicexpression", domain.BuildRequest{ProjectDir: dir})
	rec.MarkSucceeded(&domain.BuildReport{ProjectDir: dir, ProjectName: "myproject"})
	return rec
}

func TestUploadBuild_ReportOnly(t *testing.T) {
	store := NewMemoryStore()
	rec := newRecord(t.TempDir())

	key, err := UploadBuild(context.Background(), store, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := path.Join("symbolicexpression", rec.ID.String(), ReportFile)
	if key != want {
		t.Errorf("expected key %s, got %s", want, key)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 object, got %d", store.Len())
	}

	data, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatal(err)
	}
	var got domain.BuildReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("report should be valid json: %v", err)
	}
	if got.ProjectName != "myproject" {
		t.Errorf("unexpected report %+v", got)
	}
}

func TestUploadBuild_WithCSynthXML(t *testing.T) {
	dir := t.TempDir()
	xmlPath := report.CSynthPath(dir, "myproject", "solution1")
	if err := os.MkdirAll(filepath.Dir(xmlPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xmlPath, []byte("<profile/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewMemoryStore()
	rec := newRecord(dir)
	if _, err := UploadBuild(context.Background(), store, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := store.Get(context.Background(), path.Join(Prefix(rec), CSynthFile))
	if err != nil {
		t.Fatalf("csynth xml should be uploaded: %v", err)
	}
	if string(raw) != "<profile/>" {
		t.Errorf("unexpected content %q", raw)
	}
}

func TestUploadBuild_NoReport(t *testing.T) {
	rec := domain.NewBuildRecord("vivado", domain.BuildRequest{ProjectDir: "/p"})
	if _, err := UploadBuild(context.Background(), NewMemoryStore(), rec); err == nil {
		t.Error("expected error without report")
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNewS3Store_Validation(t *testing.T) {
	if _, err := NewS3Store(S3Config{}); err == nil {
		t.Error("expected error without endpoint")
	}
	if _, err := NewS3Store(S3Config{Endpoint: "localhost:9000", Bucket: "b"}); err == nil {
		t.Error("expected error without credentials")
	}
	if _, err := NewS3Store(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
