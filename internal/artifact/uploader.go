package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/shaiso/Synthflow/internal/domain"
	"github.com/shaiso/Synthflow/internal/report"
)

// Имена файлов внутри префикса сборки.
const (
	ReportFile = "report.json"
	CSynthFile = "csynth.xml"
)

// Prefix возвращает префикс ключей сборки.
func Prefix(rec *domain.BuildRecord) string {
	return path.Join(rec.Backend, rec.ID.String())
}

// UploadBuild сохраняет JSON-отчёт сборки и, если есть, исходный
// csynth XML. Возвращает ключ JSON-отчёта.
func UploadBuild(ctx context.Context, store Store, rec *domain.BuildRecord) (string, error) {
	if rec.Report == nil {
		return "", fmt.Errorf("build %s has no report", rec.ID)
	}

	prefix := Prefix(rec)
	data, err := json.MarshalIndent(rec.Report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	reportKey := path.Join(prefix, ReportFile)
	if err := store.Put(ctx, reportKey, data, "application/json"); err != nil {
		return "", err
	}

	if rec.Report.ProjectName == "" {
		return reportKey, nil
	}

	xmlPath := report.CSynthPath(rec.ProjectDir, rec.Report.ProjectName, "solution1")
	raw, err := os.ReadFile(xmlPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return reportKey, nil
	case err != nil:
		return "", fmt.Errorf("read csynth report: %w", err)
	}

	if err := store.Put(ctx, path.Join(prefix, CSynthFile), raw, "application/xml"); err != nil {
		return "", err
	}
	return reportKey, nil
}
