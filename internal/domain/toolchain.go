package domain

// IOType — режим интерфейса сгенерированного IP.
type IOType string

const (
	IOParallel IOType = "io_parallel"
	IOStream   IOType = "io_stream"
)

// Valid проверяет, что значение из допустимого набора.
func (t IOType) Valid() bool {
	switch t {
	case IOParallel, IOStream:
		return true
	default:
		return false
	}
}

// ToolchainConfig — конфигурация внешнего компилятора HLS.
//
// IncludePath и LibsPath либо заданы явно, либо выведены из пути
// к исполняемому файлу компилятора и проверены. После разрешения
// конфигурация не меняется.
type ToolchainConfig struct {
	Part        string  `json:"part"`
	ClockPeriod float64 `json:"clock_period"`
	IOType      IOType  `json:"io_type"`
	Compiler    string  `json:"compiler"`
	IncludePath string  `json:"include_path"`
	LibsPath    string  `json:"libs_path"`

	// ToolOptions — дополнительные опции, специфичные для инструмента.
	ToolOptions map[string]string `json:"tool_options,omitempty"`
}
