package catalog

import "github.com/shaiso/Synthflow/internal/domain"

// Стандартные passes встроенных backend'ов в порядке регистрации.
var (
	vivadoPasses = []domain.PassRef{
		"vivado:transform_types",
		"vivado:register_bram_weights",
		"vivado:generate_conv_streaming_instructions",
		"vivado:dense_config_template",
		"vivado:dense_function_template",
		"vivado:activation_config_template",
		"vivado:activation_function_template",
		"vivado:write_hls",
	}

	symbolicExpressionPasses = []domain.PassRef{
		"symbolicexpression:validate_user_lookup_table",
		"symbolicexpression:symbolicexpression_config_template",
		"symbolicexpression:symbolicexpression_function_template",
		"symbolicexpression:write_hls",
	}
)

// DefaultCatalog создаёт каталог со стандартными passes
// встроенных backend'ов.
func DefaultCatalog() *Catalog {
	c := New()
	c.Register("vivado", vivadoPasses...)
	c.Register("symbolicexpression", symbolicExpressionPasses...)
	return c
}
