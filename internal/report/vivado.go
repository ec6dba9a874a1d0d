// Package report разбирает отчёты внешнего инструмента синтеза.
//
// Для ядра это внешний коллаборатор: оркестратор сборки передаёт ему
// каталог проекта после каждого запуска и возвращает результат как есть.
package report

import (
	"bufio"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shaiso/Synthflow/internal/domain"
)

// ErrProjectNotFound — в каталоге нет project.tcl.
var ErrProjectNotFound = errors.New("project not found")

// projectFile — файл, из которого читается имя проекта.
const projectFile = "project.tcl"

var projectNameRe = regexp.MustCompile(`^\s*set\s+project_name\s+"?([^"\s]+)"?`)

// VivadoParser читает отчёты Vivado HLS из каталога проекта.
type VivadoParser struct {
	// Solution — имя solution внутри <project>_prj. По умолчанию "solution1".
	Solution string
}

// NewVivadoParser создаёт парсер с solution по умолчанию.
func NewVivadoParser() *VivadoParser {
	return &VivadoParser{Solution: "solution1"}
}

// Parse собирает BuildReport.
//
// Отсутствие отдельного отчёта не ошибка: соответствующая секция
// остаётся nil. Отсутствие project.tcl — ErrProjectNotFound.
func (p *VivadoParser) Parse(ctx context.Context, projectDir string) (*domain.BuildReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := ReadProjectName(projectDir)
	if err != nil {
		return nil, err
	}

	solutionDir := filepath.Join(projectDir, name+"_prj", p.Solution)
	report := &domain.BuildReport{
		ProjectDir:  projectDir,
		ProjectName: name,
	}

	csynthPath := CSynthPath(projectDir, name, p.Solution)
	report.CSynth, err = parseCSynth(csynthPath)
	if err != nil {
		return nil, err
	}

	cosimPath := filepath.Join(solutionDir, "sim", "report", name+"_cosim.rpt")
	report.CoSim, err = parseCoSim(cosimPath)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// CSynthPath возвращает путь к XML-отчёту C-синтеза.
func CSynthPath(projectDir, name, solution string) string {
	return filepath.Join(projectDir, name+"_prj", solution, "syn", "report", name+"_csynth.xml")
}

// ReadProjectName читает имя проекта из project.tcl.
func ReadProjectName(projectDir string) (string, error) {
	f, err := os.Open(filepath.Join(projectDir, projectFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s has no %s", ErrProjectNotFound, projectDir, projectFile)
		}
		return "", fmt.Errorf("open %s: %w", projectFile, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := projectNameRe.FindStringSubmatch(scanner.Text()); m != nil {
			return m[1], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read %s: %w", projectFile, err)
	}
	return "", fmt.Errorf("%w: %s does not set project_name", ErrProjectNotFound, filepath.Join(projectDir, projectFile))
}

// xmlItem — произвольный элемент с текстом (для секций ресурсов).
type xmlItem struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type csynthXML struct {
	UserAssignments struct {
		TargetClockPeriod string `xml:"TargetClockPeriod"`
	} `xml:"UserAssignments"`
	PerformanceEstimates struct {
		SummaryOfTimingAnalysis struct {
			EstimatedClockPeriod string `xml:"EstimatedClockPeriod"`
		} `xml:"SummaryOfTimingAnalysis"`
		SummaryOfOverallLatency struct {
			Best        string `xml:"Best-caseLatency"`
			Worst       string `xml:"Worst-caseLatency"`
			IntervalMin string `xml:"Interval-min"`
			IntervalMax string `xml:"Interval-max"`
		} `xml:"SummaryOfOverallLatency"`
	} `xml:"PerformanceEstimates"`
	AreaEstimates struct {
		Resources struct {
			Items []xmlItem `xml:",any"`
		} `xml:"Resources"`
		AvailableResources struct {
			Items []xmlItem `xml:",any"`
		} `xml:"AvailableResources"`
	} `xml:"AreaEstimates"`
}

func parseCSynth(path string) (*domain.CSynthReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csynth report: %w", err)
	}

	var doc csynthXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse csynth report %s: %w", path, err)
	}

	lat := doc.PerformanceEstimates.SummaryOfOverallLatency
	return &domain.CSynthReport{
		TargetClockPeriod:    strings.TrimSpace(doc.UserAssignments.TargetClockPeriod),
		EstimatedClockPeriod: strings.TrimSpace(doc.PerformanceEstimates.SummaryOfTimingAnalysis.EstimatedClockPeriod),
		BestLatency:          strings.TrimSpace(lat.Best),
		WorstLatency:         strings.TrimSpace(lat.Worst),
		IntervalMin:          strings.TrimSpace(lat.IntervalMin),
		IntervalMax:          strings.TrimSpace(lat.IntervalMax),
		Resources:            itemsToMap(doc.AreaEstimates.Resources.Items),
		AvailableResources:   itemsToMap(doc.AreaEstimates.AvailableResources.Items),
	}, nil
}

func itemsToMap(items []xmlItem) map[string]string {
	if len(items) == 0 {
		return nil
	}
	out := make(map[string]string, len(items))
	for _, it := range items {
		out[it.XMLName.Local] = strings.TrimSpace(it.Value)
	}
	return out
}

// parseCoSim ищет строку итогов RTL в таблице cosim-отчёта:
//
//	|     Verilog|  Pass|      9|      9|      9|   1|   1|   1|
//
// Строка с результатом (Pass/Fail) предпочитается строке NA: Vivado
// выводит строку для каждого языка RTL, а симулируется обычно один.
func parseCoSim(path string) (*domain.CoSimReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open cosim report: %w", err)
	}
	defer f.Close()

	var fallback *domain.CoSimReport
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "Verilog") && !strings.Contains(line, "VHDL") {
			continue
		}
		fields := splitTableRow(line)
		if len(fields) < 2 {
			continue
		}
		status := fields[1]
		if status != "Pass" && status != "Fail" && status != "NA" {
			continue
		}
		rep := &domain.CoSimReport{Status: status}
		if len(fields) >= 5 {
			rep.MinLatency = fields[2]
			rep.AvgLatency = fields[3]
			rep.MaxLatency = fields[4]
		}
		if status != "NA" {
			return rep, nil
		}
		if fallback == nil {
			fallback = rep
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cosim report: %w", err)
	}
	return fallback, nil
}

func splitTableRow(line string) []string {
	raw := strings.Split(strings.Trim(strings.TrimSpace(line), "|"), "|")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, strings.TrimSpace(r))
	}
	return out
}
