package backends

import "github.com/khevencolino/Vega/internal/backends/ir"

// Backend consome o programa intermediário e produz (ou executa) o
// resultado final da compilação
type Backend interface {
	Compile(programa *ir.Programa) error
	GetName() string
	GetExtension() string
}
