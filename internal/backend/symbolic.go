package backend

import "github.com/shaiso/Synthflow/internal/domain"

// SymbolicExpressionName — имя backend символьных выражений.
const SymbolicExpressionName = "symbolicexpression"

// SymbolicExpression — backend, генерирующий HLS из символьных выражений.
//
// Типы и запись проекта берёт у Vivado, поэтому в реестре должен быть
// flow vivado:ip.
type SymbolicExpression struct {
	*fpga
}

// NewSymbolicExpression создаёт backend и регистрирует его flows.
func NewSymbolicExpression(deps Deps) *SymbolicExpression {
	b := &SymbolicExpression{fpga: newFPGA(SymbolicExpressionName, deps)}
	b.registerFlows()
	return b
}

func (b *SymbolicExpression) registerFlows() {
	types := b.register("specific_types", domain.StaticPasses("vivado:transform_types"))
	templates := b.register("apply_templates", domain.DeferredPasses(b.layerTemplates))

	b.writerFlow = b.register("write", domain.StaticPasses(
		"make_stamp",
		"symbolicexpression:write_hls",
	), domain.NewFlowID(VivadoName, "ip"))

	b.defaultFlow = b.register("ip", domain.StaticPasses(), types, templates)
}
