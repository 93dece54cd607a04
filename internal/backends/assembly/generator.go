package assembly

import (
	"fmt"

	"github.com/khevencolino/Vega/internal/backends"
	"github.com/khevencolino/Vega/internal/backends/assembly/x86_64"
	"github.com/khevencolino/Vega/internal/config"
)

// NewAssemblyBackend seleciona o backend nativo pela arquitetura.
// somenteAsm interrompe a compilação após escrever o arquivo .s,
// sem invocar montador e ligador.
func NewAssemblyBackend(arch string, cfg *config.Config, somenteAsm bool) (backends.Backend, error) {
	switch arch {
	case "x86_64", "amd64":
		return x86_64.NovoBackend(cfg, somenteAsm), nil
	default:
		return nil, fmt.Errorf("arquitetura assembly não suportada: %s", arch)
	}
}
