package vm

import (
	"os"

	"github.com/khevencolino/Vega/internal/backends/ir"
	"github.com/khevencolino/Vega/internal/debug"
)

// VMBackend executa o programa intermediário diretamente, sem gerar
// código nativo. Útil para conferir a semântica de um programa sem
// depender do montador.
type VMBackend struct{}

func NovoVMBackend() *VMBackend {
	return &VMBackend{}
}

func (b *VMBackend) GetName() string      { return "Máquina Virtual" }
func (b *VMBackend) GetExtension() string { return "" }

func (b *VMBackend) Compile(programa *ir.Programa) error {
	debug.Printf("🚀 Executando na Virtual Machine...\n")

	maquina := ir.NovaVM(programa, os.Stdout)
	return maquina.Executar(programa)
}
