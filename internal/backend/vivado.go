package backend

import "github.com/shaiso/Synthflow/internal/domain"

// VivadoName — имя backend Vivado.
const VivadoName = "vivado"

// Vivado — базовый backend Vivado HLS.
type Vivado struct {
	*fpga
}

// NewVivado создаёт backend и регистрирует его flows.
func NewVivado(deps Deps) *Vivado {
	b := &Vivado{fpga: newFPGA(VivadoName, deps)}
	b.registerFlows()
	return b
}

func (b *Vivado) registerFlows() {
	types := b.register("specific_types", domain.StaticPasses(
		"vivado:transform_types",
		"vivado:register_bram_weights",
	))
	templates := b.register("apply_templates", domain.DeferredPasses(b.layerTemplates))

	b.defaultFlow = b.register("ip", domain.StaticPasses(
		"vivado:generate_conv_streaming_instructions",
	), types, templates)

	b.writerFlow = b.register("write", domain.StaticPasses(
		"make_stamp",
		"vivado:write_hls",
	), b.defaultFlow)
}
