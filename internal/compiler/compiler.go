package compiler

import (
	"fmt"

	"github.com/khevencolino/Vega/internal/backends"
	"github.com/khevencolino/Vega/internal/backends/assembly"
	"github.com/khevencolino/Vega/internal/backends/ir"
	"github.com/khevencolino/Vega/internal/backends/vm"
	"github.com/khevencolino/Vega/internal/config"
	"github.com/khevencolino/Vega/internal/debug"
	"github.com/khevencolino/Vega/internal/lexer"
	"github.com/khevencolino/Vega/internal/parser"
	"github.com/khevencolino/Vega/internal/utils"
)

// Fase identifica a etapa da compilação em que um erro aconteceu.
// Cada fase tem um código de saída próprio, estável e documentado
// na ajuda do programa.
type Fase int

const (
	FaseLeitura     Fase = iota // leitura do arquivo fonte
	FaseAnalise                 // análise léxica e sintática
	FaseVerificacao             // verificação de tipos
	FaseGeracao                 // rebaixamento para instruções
	FaseEmissao                 // emissão de código e toolchain
)

// CodigoSaida retorna o código de saída do processo para a fase
func (f Fase) CodigoSaida() int {
	switch f {
	case FaseLeitura:
		return 1
	case FaseAnalise:
		return 2
	case FaseVerificacao:
		return 3
	case FaseGeracao:
		return 4
	default:
		return 5
	}
}

func (f Fase) String() string {
	switch f {
	case FaseLeitura:
		return "leitura"
	case FaseAnalise:
		return "análise"
	case FaseVerificacao:
		return "verificação de tipos"
	case FaseGeracao:
		return "geração de instruções"
	default:
		return "emissão"
	}
}

// ErroDeFase embrulha um erro com a fase em que ele ocorreu
type ErroDeFase struct {
	Fase Fase
	Err  error
}

func (e *ErroDeFase) Error() string { return e.Err.Error() }
func (e *ErroDeFase) Unwrap() error { return e.Err }

// Opcoes controla uma invocação do compilador
type Opcoes struct {
	Backend      string
	Arquitetura  string
	Configuracao *config.Config
	SomenteAsm   bool // escreve o .s sem invocar montador e ligador
}

// Compiler encadeia as etapas: análise, verificação, rebaixamento e
// backend. Cada invocação cria seu próprio estado; nada sobrevive
// entre compilações.
type Compiler struct{}

// NovoCompilador cria um novo compilador
func NovoCompilador() *Compiler {
	return &Compiler{}
}

// CompilarArquivo compila um arquivo fonte do início ao fim
func (c *Compiler) CompilarArquivo(arquivoEntrada string, opcoes Opcoes) error {
	conteudo, err := utils.LerArquivo(arquivoEntrada)
	if err != nil {
		return &ErroDeFase{Fase: FaseLeitura, Err: err}
	}
	return c.Compilar(conteudo, opcoes)
}

// Compilar compila o conteúdo de um programa já em memória
func (c *Compiler) Compilar(conteudo string, opcoes Opcoes) error {
	// Análise léxica
	tokens, err := lexer.NovoLexer(conteudo).Tokenizar()
	if err != nil {
		return &ErroDeFase{Fase: FaseAnalise, Err: err}
	}

	if debug.Enabled {
		debug.Printf("Tokens encontrados:\n")
		lexer.ImprimirTokens(tokens)
	}

	// Análise sintática
	comandos, err := parser.NovoParser(tokens).AnalisarPrograma()
	if err != nil {
		return &ErroDeFase{Fase: FaseAnalise, Err: err}
	}

	if debug.Enabled {
		parser.NovoVisualizador().ImprimirPrograma(comandos)
	}

	// Verificação de tipos
	tabela, err := NovoVerificadorTipos().VerificarPrograma(comandos)
	if err != nil {
		return &ErroDeFase{Fase: FaseVerificacao, Err: err}
	}

	// Rebaixamento para a lista de instruções
	programa, err := ir.NovoGerador(tabela).GerarPrograma(comandos)
	if err != nil {
		return &ErroDeFase{Fase: FaseGeracao, Err: err}
	}

	// Backend
	backend, err := c.selecionarBackend(opcoes)
	if err != nil {
		return &ErroDeFase{Fase: FaseEmissao, Err: err}
	}

	debug.Printf("Backend selecionado: %s\n", backend.GetName())

	if err := backend.Compile(programa); err != nil {
		return &ErroDeFase{Fase: FaseEmissao, Err: err}
	}
	return nil
}

func (c *Compiler) selecionarBackend(opcoes Opcoes) (backends.Backend, error) {
	cfg := opcoes.Configuracao
	if cfg == nil {
		cfg = config.Padrao()
	}

	switch opcoes.Backend {
	case "vm", "interp", "interpreter":
		return vm.NovoVMBackend(), nil
	case "assembly", "asm", "native":
		return assembly.NewAssemblyBackend(opcoes.Arquitetura, cfg, opcoes.SomenteAsm)
	default:
		return nil, fmt.Errorf("backend desconhecido: %s", opcoes.Backend)
	}
}
