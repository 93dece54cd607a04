package x86_64

import (
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/khevencolino/Vega/internal/backends/ir"
	"github.com/khevencolino/Vega/internal/config"
	"github.com/khevencolino/Vega/internal/debug"
	"github.com/khevencolino/Vega/internal/parser"
	"github.com/khevencolino/Vega/internal/utils"
)

// X86_64Backend emite assembly AT&T para Linux a partir da lista de
// instruções. Os valores transitórios da pilha de avaliação vivem num
// conjunto fixo de registradores; profundidades maiores derramam para
// a área reservada no quadro.
type X86_64Backend struct {
	config        *config.Config
	somenteAsm    bool
	corpo         strings.Builder
	quadro        *quadro
	profundidade  int
	rotinasUsadas map[string]bool
}

// NovoBackend cria o backend com a configuração da toolchain
func NovoBackend(cfg *config.Config, somenteAsm bool) *X86_64Backend {
	return &X86_64Backend{
		config:        cfg,
		somenteAsm:    somenteAsm,
		rotinasUsadas: make(map[string]bool),
	}
}

func (b *X86_64Backend) GetName() string      { return "Assembly x86-64" }
func (b *X86_64Backend) GetExtension() string { return ".s" }

func (b *X86_64Backend) Compile(programa *ir.Programa) error {
	debug.Printf("🔧 Compilando para Assembly x86-64...\n")

	q, err := montarQuadro(programa)
	if err != nil {
		return err
	}
	b.quadro = q

	if err := b.gerarCorpo(programa); err != nil {
		return err
	}

	arquivoSaida := filepath.Join(b.config.DiretorioSaida, "programa.s")
	if err := utils.EscreverArquivo(arquivoSaida, b.montarArquivo(programa)); err != nil {
		return err
	}

	fmt.Println("Arquivo assembly criado com sucesso:", arquivoSaida)

	if b.somenteAsm {
		return nil
	}
	return b.montarExecutavel(arquivoSaida)
}

// gerarCorpo traduz cada instrução intermediária para assembly dentro
// do corpo de _start
func (b *X86_64Backend) gerarCorpo(programa *ir.Programa) error {
	for _, instr := range programa.Instrucoes {
		switch instr.OpCode {
		case ir.OP_CONST_INT:
			destino := b.empilhar()
			if instr.Operando >= math.MinInt32 && instr.Operando <= math.MaxInt32 {
				b.linha("movq $%d, %s", instr.Operando, destino)
			} else {
				b.linha("movabsq $%d, %%rax", instr.Operando)
				b.mover("%rax", destino)
			}

		case ir.OP_CONST_TEXTO:
			destino := b.empilhar()
			if strings.HasPrefix(destino, "%") {
				b.linha("leaq texto_%d(%%rip), %s", instr.Operando, destino)
			} else {
				b.linha("leaq texto_%d(%%rip), %%rax", instr.Operando)
				b.mover("%rax", destino)
			}

		case ir.OP_CONST_BOOL:
			b.linha("movq $%d, %s", instr.Operando, b.empilhar())

		case ir.OP_CARREGA:
			origem := b.quadro.enderecoSimbolo(instr.Operando)
			b.mover(origem, b.empilhar())

		case ir.OP_ARMAZENA:
			b.mover(b.desempilhar(), b.quadro.enderecoSimbolo(instr.Operando))

		case ir.OP_DESCARTA:
			b.profundidade--

		case ir.OP_SOMA, ir.OP_SUB, ir.OP_MUL, ir.OP_DIV:
			b.gerarAritmetica(instr.OpCode)

		case ir.OP_CONCAT:
			b.mover(b.desempilhar(), "%rsi")
			b.mover(b.desempilhar(), "%rdi")
			b.marcarRotina("concatena")
			b.linha("call concatena")
			b.mover("%rax", b.empilhar())

		case ir.OP_TEXTO:
			b.mover(b.desempilhar(), "%rdi")
			if instr.Tipo == parser.TipoBooleano {
				b.marcarRotina("bool_para_texto")
				b.linha("call bool_para_texto")
			} else {
				b.marcarRotina("num_para_texto")
				b.linha("call num_para_texto")
			}
			b.mover("%rax", b.empilhar())

		case ir.OP_EQ, ir.OP_NE, ir.OP_LT, ir.OP_GT, ir.OP_LE, ir.OP_GE:
			b.gerarComparacao(instr)

		case ir.OP_SALTO:
			b.linha("jmp rotulo_%d", instr.Operando)

		case ir.OP_SALTO_SE_FALSO:
			b.mover(b.desempilhar(), "%rax")
			if instr.Tipo == parser.TipoTexto {
				// texto vazio é falso: testa o tamanho no cabeçalho
				b.linha("movq (%%rax), %%rax")
			}
			b.linha("testq %%rax, %%rax")
			b.linha("jz rotulo_%d", instr.Operando)

		case ir.OP_ROTULO:
			fmt.Fprintf(&b.corpo, "rotulo_%d:\n", instr.Operando)

		case ir.OP_IMPRIME:
			b.mover(b.desempilhar(), "%rdi")
			switch instr.Tipo {
			case parser.TipoTexto:
				b.marcarRotina("imprime_texto")
				b.linha("call imprime_texto")
			case parser.TipoBooleano:
				b.marcarRotina("imprime_bool")
				b.linha("call imprime_bool")
			default:
				b.marcarRotina("imprime_num")
				b.linha("call imprime_num")
			}

		case ir.OP_ARRANJO_NOVO:
			if instr.Extra > 0 {
				b.linha("leaq %s, %%rdi", b.quadro.enderecoSimbolo(instr.Operando))
				b.linha("movq $%d, %%rcx", instr.Extra)
				if instr.Tipo == parser.TipoTexto {
					// elementos de texto começam no texto vazio, nunca
					// num ponteiro nulo
					b.marcarRotina("texto_vazio")
					b.linha("leaq texto_vazio(%%rip), %%rax")
				} else {
					b.linha("xorq %%rax, %%rax")
				}
				b.linha("rep stosq")
			}

		case ir.OP_ARRANJO_CARREGA:
			b.mover(b.desempilhar(), "%rcx")
			b.gerarChecagemLimite(instr)
			b.linha("leaq %s, %%rdx", b.quadro.enderecoSimbolo(instr.Operando))
			b.linha("movq (%%rdx,%%rcx,8), %%rax")
			b.mover("%rax", b.empilhar())

		case ir.OP_ARRANJO_ARMAZENA:
			b.mover(b.desempilhar(), "%rcx")
			b.mover(b.desempilhar(), "%rax")
			b.gerarChecagemLimite(instr)
			b.linha("leaq %s, %%rdx", b.quadro.enderecoSimbolo(instr.Operando))
			b.linha("movq %%rax, (%%rdx,%%rcx,8)")

		default:
			return utils.NovoErroTipado(utils.ErroConstrucaoNaoSuportada,
				"instrução não suportada pelo backend x86-64", instr.Linha, 0,
				instr.OpCode.String())
		}
	}
	return nil
}

// gerarAritmetica emite uma operação sobre os dois valores do topo
func (b *X86_64Backend) gerarAritmetica(op ir.OpCode) {
	b.mover(b.desempilhar(), "%rcx")
	b.mover(b.desempilhar(), "%rax")

	switch op {
	case ir.OP_SOMA:
		b.linha("addq %%rcx, %%rax")
	case ir.OP_SUB:
		b.linha("subq %%rcx, %%rax")
	case ir.OP_MUL:
		b.linha("imulq %%rcx, %%rax")
	case ir.OP_DIV:
		b.linha("cqto")
		b.linha("idivq %%rcx")
	}

	b.mover("%rax", b.empilhar())
}

// gerarComparacao emite uma comparação; textos comparam por conteúdo
// via rotina de runtime
func (b *X86_64Backend) gerarComparacao(instr ir.Instrucao) {
	if instr.Tipo == parser.TipoTexto {
		b.mover(b.desempilhar(), "%rsi")
		b.mover(b.desempilhar(), "%rdi")
		b.marcarRotina("textos_iguais")
		b.linha("call textos_iguais")
		if instr.OpCode == ir.OP_NE {
			b.linha("xorq $1, %%rax")
		}
		b.mover("%rax", b.empilhar())
		return
	}

	b.mover(b.desempilhar(), "%rcx")
	b.mover(b.desempilhar(), "%rax")
	b.linha("cmpq %%rcx, %%rax")

	condicao := map[ir.OpCode]string{
		ir.OP_EQ: "sete",
		ir.OP_NE: "setne",
		ir.OP_LT: "setl",
		ir.OP_GT: "setg",
		ir.OP_LE: "setle",
		ir.OP_GE: "setge",
	}[instr.OpCode]
	b.linha("%s %%al", condicao)
	b.linha("movzbq %%al, %%rax")
	b.mover("%rax", b.empilhar())
}

// gerarChecagemLimite emite a checagem de índice contra a capacidade
// declarada; o índice está em %rcx e a comparação é sem sinal, então
// índices negativos também caem no desvio
func (b *X86_64Backend) gerarChecagemLimite(instr ir.Instrucao) {
	b.marcarRotina("indice_invalido")
	b.linha("cmpq $%d, %%rcx", instr.Extra)
	b.linha("jae indice_invalido")
}

// empilhar reserva a próxima posição da pilha de avaliação e devolve
// seu operando (registrador ou vaga de derramamento)
func (b *X86_64Backend) empilhar() string {
	operando := b.posicao(b.profundidade)
	b.profundidade++
	return operando
}

// desempilhar libera o topo da pilha de avaliação e devolve seu operando
func (b *X86_64Backend) desempilhar() string {
	b.profundidade--
	return b.posicao(b.profundidade)
}

func (b *X86_64Backend) posicao(indice int) string {
	if indice < len(registradoresPilha) {
		return registradoresPilha[indice]
	}
	return b.quadro.enderecoDerramamento(indice - len(registradoresPilha))
}

// mover emite a cópia de um valor; duas posições de memória passam
// por %rax
func (b *X86_64Backend) mover(origem string, destino string) {
	if origem == destino {
		return
	}
	if !strings.HasPrefix(origem, "%") && !strings.HasPrefix(destino, "%") {
		b.linha("movq %s, %%rax", origem)
		b.linha("movq %%rax, %s", destino)
		return
	}
	b.linha("movq %s, %s", origem, destino)
}

func (b *X86_64Backend) linha(formato string, argumentos ...interface{}) {
	b.corpo.WriteString("    ")
	fmt.Fprintf(&b.corpo, formato, argumentos...)
	b.corpo.WriteString("\n")
}

// montarArquivo monta o texto final: pool de textos, corpo do programa
// e rotinas de runtime usadas
func (b *X86_64Backend) montarArquivo(programa *ir.Programa) string {
	b.marcarRotina("sair")

	// O prólogo pode marcar rotinas, então é gerado antes das seções
	prologo := b.gerarPrologo(programa)

	var saida strings.Builder

	// Seção de dados somente leitura: pool deduplicado de textos do
	// programa seguido dos dados das rotinas
	saida.WriteString(".section .rodata\n")
	for i, texto := range programa.Textos {
		fmt.Fprintf(&saida, "texto_%d:\n    .quad %d\n", i, len(texto))
		if len(texto) > 0 {
			fmt.Fprintf(&saida, "    .ascii \"%s\"\n", textoAssembly(texto))
		}
	}
	for _, rotina := range rotinasRuntime {
		if b.rotinasUsadas[rotina.nome] && rotina.dados != "" {
			saida.WriteString(rotina.dados)
		}
	}

	saida.WriteString("\n.section .text\n")
	saida.WriteString(".global _start\n\n")
	saida.WriteString("_start:\n")
	saida.WriteString(prologo)
	saida.WriteString(b.corpo.String())
	saida.WriteString("    call sair\n")

	for _, rotina := range rotinasRuntime {
		if b.rotinasUsadas[rotina.nome] && rotina.codigo != "" {
			saida.WriteString("\n")
			saida.WriteString(rotina.codigo)
		}
	}

	reservas := false
	for _, rotina := range rotinasRuntime {
		if b.rotinasUsadas[rotina.nome] && rotina.bss != "" {
			if !reservas {
				saida.WriteString("\n")
				reservas = true
			}
			saida.WriteString(rotina.bss)
		}
	}

	return saida.String()
}

// gerarPrologo reserva o quadro e o deixa em estado definido: toda
// célula começa zerada, e células de texto recebem o ponteiro para o
// texto vazio para que leituras antes da primeira atribuição se
// comportem como na máquina de referência
func (b *X86_64Backend) gerarPrologo(programa *ir.Programa) string {
	var saida strings.Builder
	saida.WriteString("    pushq %rbp\n")
	saida.WriteString("    movq %rsp, %rbp\n")
	if b.quadro.tamanhoTotal == 0 {
		return saida.String()
	}

	fmt.Fprintf(&saida, "    subq $%d, %%rsp\n", b.quadro.tamanhoTotal)
	fmt.Fprintf(&saida, "    leaq -%d(%%rbp), %%rdi\n", b.quadro.tamanhoTotal)
	fmt.Fprintf(&saida, "    movq $%d, %%rcx\n", b.quadro.tamanhoTotal/8)
	saida.WriteString("    xorq %rax, %rax\n")
	saida.WriteString("    rep stosq\n")

	carregouVazio := false
	for _, simbolo := range programa.Tabela.Ordem {
		tipo := simbolo.Tipo
		if simbolo.EArranjo() {
			tipo = simbolo.TipoElemento
		}
		if tipo != parser.TipoTexto {
			continue
		}
		if !carregouVazio {
			b.marcarRotina("texto_vazio")
			saida.WriteString("    leaq texto_vazio(%rip), %rax\n")
			carregouVazio = true
		}
		if simbolo.EArranjo() {
			fmt.Fprintf(&saida, "    leaq %s, %%rdi\n", b.quadro.enderecoSimbolo(int64(simbolo.Slot)))
			fmt.Fprintf(&saida, "    movq $%d, %%rcx\n", simbolo.Capacidade)
			saida.WriteString("    rep stosq\n")
		} else {
			fmt.Fprintf(&saida, "    movq %%rax, %s\n", b.quadro.enderecoSimbolo(int64(simbolo.Slot)))
		}
	}

	return saida.String()
}

// textoAssembly escapa um texto para uma diretiva .ascii
func textoAssembly(texto string) string {
	var saida strings.Builder
	for i := 0; i < len(texto); i++ {
		c := texto[i]
		switch {
		case c == '"':
			saida.WriteString("\\\"")
		case c == '\\':
			saida.WriteString("\\\\")
		case c == '\n':
			saida.WriteString("\\n")
		case c == '\t':
			saida.WriteString("\\t")
		case c >= 32 && c < 127:
			saida.WriteByte(c)
		default:
			fmt.Fprintf(&saida, "\\%03o", c)
		}
	}
	return saida.String()
}

// montarExecutavel invoca montador e ligador configurados
func (b *X86_64Backend) montarExecutavel(arquivoAssembly string) error {
	debug.Printf("Criando arquivo executavel...\n")

	objectFile := filepath.Join(b.config.DiretorioSaida, "programa.o")
	cmdAs := exec.Command(b.config.Montador, "-o", objectFile, arquivoAssembly)
	if err := cmdAs.Run(); err != nil {
		utils.RemoverArquivo(objectFile)
		return fmt.Errorf("erro ao montar (%s): %v", b.config.Montador, err)
	}

	executavel := filepath.Join(b.config.DiretorioSaida, "programa")
	cmdLd := exec.Command(b.config.Ligador, "-o", executavel, objectFile)
	if err := cmdLd.Run(); err != nil {
		utils.RemoverArquivo(executavel)
		utils.RemoverArquivo(objectFile)
		return fmt.Errorf("erro ao ligar (%s): %v", b.config.Ligador, err)
	}

	debug.Printf("Executável gerado: %s\n", executavel)
	debug.Printf("Para executar: ./%s\n", executavel)

	return nil
}
