package domain

// BuildReport — структурированный результат одного запуска синтеза.
//
// Ядро не интерпретирует отчёт: он возвращается вызывающему как есть.
// Секции, для которых не нашлось файлов, остаются nil.
type BuildReport struct {
	// ProjectDir — каталог проекта, из которого читались отчёты.
	ProjectDir string `json:"project_dir"`

	// ProjectName — имя проекта из project.tcl.
	ProjectName string `json:"project_name"`

	// CSynth — отчёт C-синтеза.
	CSynth *CSynthReport `json:"csynth,omitempty"`

	// CoSim — отчёт ко-симуляции.
	CoSim *CoSimReport `json:"cosim,omitempty"`
}

// Empty возвращает true, если ни одной секции не найдено.
func (r *BuildReport) Empty() bool {
	return r == nil || (r.CSynth == nil && r.CoSim == nil)
}

// CSynthReport — основные показатели C-синтеза.
type CSynthReport struct {
	TargetClockPeriod    string `json:"target_clock_period"`
	EstimatedClockPeriod string `json:"estimated_clock_period"`
	BestLatency          string `json:"best_latency"`
	WorstLatency         string `json:"worst_latency"`
	IntervalMin          string `json:"interval_min"`
	IntervalMax          string `json:"interval_max"`

	// Resources — использованные ресурсы (BRAM_18K, DSP48E, FF, LUT, URAM).
	Resources map[string]string `json:"resources,omitempty"`

	// AvailableResources — доступные ресурсы целевого устройства.
	AvailableResources map[string]string `json:"available_resources,omitempty"`
}

// CoSimReport — итог ко-симуляции.
type CoSimReport struct {
	Status     string `json:"status"`
	MinLatency string `json:"min_latency,omitempty"`
	AvgLatency string `json:"avg_latency,omitempty"`
	MaxLatency string `json:"max_latency,omitempty"`
}
