package ir

import (
	"fmt"
	"io"
	"strconv"

	"github.com/khevencolino/Vega/internal/debug"
	"github.com/khevencolino/Vega/internal/parser"
)

// Valor é uma célula da máquina: um inteiro, um texto ou um booleano
type Valor struct {
	Tipo     parser.Tipo
	Inteiro  int64
	Texto    string
	Booleano bool
}

// VM executa a lista de instruções diretamente, com a mesma semântica
// do código nativo emitido. Serve de backend de referência e de
// ferramenta de teste do rebaixamento.
type VM struct {
	stack    []Valor
	stackTop int
	celulas  []Valor // slots de variáveis e regiões de arranjos
	bases    []int   // base de cada símbolo dentro de celulas
	pc       int     // program counter
	saida    io.Writer
}

// NovaVM cria uma máquina para um programa, escrevendo echo em saida
func NovaVM(programa *Programa, saida io.Writer) *VM {
	// Cada escalar ocupa uma célula; arranjos ocupam Capacidade células
	bases := make([]int, programa.Tabela.Quantidade())
	total := 0
	for i, simbolo := range programa.Tabela.Ordem {
		bases[i] = total
		if simbolo.EArranjo() {
			total += simbolo.Capacidade
		} else {
			total++
		}
	}

	// Toda célula começa no valor zero do tipo do símbolo, como o
	// quadro zerado do código nativo: inteiro 0, texto vazio, falso
	celulas := make([]Valor, total)
	for i, simbolo := range programa.Tabela.Ordem {
		tipo := simbolo.Tipo
		tamanho := 1
		if simbolo.EArranjo() {
			tipo = simbolo.TipoElemento
			tamanho = simbolo.Capacidade
		}
		for j := 0; j < tamanho; j++ {
			celulas[bases[i]+j] = Valor{Tipo: tipo}
		}
	}

	return &VM{
		stack:   make([]Valor, 256), // pilha fixa
		celulas: celulas,
		bases:   bases,
		saida:   saida,
	}
}

// Executar roda o programa até a última instrução
func (vm *VM) Executar(programa *Programa) error {
	// Resolve rótulos para endereços de instrução
	rotulos := make(map[int64]int)
	for endereco, instr := range programa.Instrucoes {
		if instr.OpCode == OP_ROTULO {
			rotulos[instr.Operando] = endereco
		}
	}

	debug.Printf("🏃 Executando %d instruções...\n", len(programa.Instrucoes))

	for vm.pc < len(programa.Instrucoes) {
		instr := programa.Instrucoes[vm.pc]

		switch instr.OpCode {
		case OP_CONST_INT:
			vm.push(Valor{Tipo: parser.TipoInteiro, Inteiro: instr.Operando})

		case OP_CONST_TEXTO:
			vm.push(Valor{Tipo: parser.TipoTexto, Texto: programa.Textos[instr.Operando]})

		case OP_CONST_BOOL:
			vm.push(Valor{Tipo: parser.TipoBooleano, Booleano: instr.Operando != 0})

		case OP_CARREGA:
			vm.push(vm.celulas[vm.bases[instr.Operando]])

		case OP_ARMAZENA:
			vm.celulas[vm.bases[instr.Operando]] = vm.pop()

		case OP_DESCARTA:
			vm.pop()

		case OP_SOMA:
			b := vm.pop()
			a := vm.pop()
			vm.push(Valor{Tipo: parser.TipoInteiro, Inteiro: a.Inteiro + b.Inteiro})

		case OP_SUB:
			b := vm.pop()
			a := vm.pop()
			vm.push(Valor{Tipo: parser.TipoInteiro, Inteiro: a.Inteiro - b.Inteiro})

		case OP_MUL:
			b := vm.pop()
			a := vm.pop()
			vm.push(Valor{Tipo: parser.TipoInteiro, Inteiro: a.Inteiro * b.Inteiro})

		case OP_DIV:
			b := vm.pop()
			a := vm.pop()
			if b.Inteiro == 0 {
				return fmt.Errorf("divisão por zero na linha %d", instr.Linha)
			}
			vm.push(Valor{Tipo: parser.TipoInteiro, Inteiro: a.Inteiro / b.Inteiro})

		case OP_TEXTO:
			valor := vm.pop()
			vm.push(Valor{Tipo: parser.TipoTexto, Texto: paraTexto(valor)})

		case OP_CONCAT:
			b := vm.pop()
			a := vm.pop()
			vm.push(Valor{Tipo: parser.TipoTexto, Texto: a.Texto + b.Texto})

		case OP_EQ, OP_NE, OP_LT, OP_GT, OP_LE, OP_GE:
			b := vm.pop()
			a := vm.pop()
			vm.push(Valor{Tipo: parser.TipoBooleano, Booleano: comparar(instr.OpCode, a, b)})

		case OP_SALTO:
			vm.pc = rotulos[instr.Operando]

		case OP_SALTO_SE_FALSO:
			if !verdadeiro(vm.pop()) {
				vm.pc = rotulos[instr.Operando]
			}

		case OP_ROTULO:
			// apenas marca posição

		case OP_IMPRIME:
			if _, err := io.WriteString(vm.saida, paraTexto(vm.pop())); err != nil {
				return fmt.Errorf("erro ao escrever saída: %w", err)
			}

		case OP_ARRANJO_NOVO:
			base := vm.bases[instr.Operando]
			for i := int64(0); i < instr.Extra; i++ {
				vm.celulas[base+int(i)] = Valor{Tipo: instr.Tipo}
			}

		case OP_ARRANJO_CARREGA:
			indice := vm.pop().Inteiro
			if indice < 0 || indice >= instr.Extra {
				return fmt.Errorf("índice %d fora dos limites na linha %d", indice, instr.Linha)
			}
			vm.push(vm.celulas[vm.bases[instr.Operando]+int(indice)])

		case OP_ARRANJO_ARMAZENA:
			indice := vm.pop().Inteiro
			valor := vm.pop()
			if indice < 0 || indice >= instr.Extra {
				return fmt.Errorf("índice %d fora dos limites na linha %d", indice, instr.Linha)
			}
			vm.celulas[vm.bases[instr.Operando]+int(indice)] = valor

		default:
			return fmt.Errorf("opcode desconhecido: %d", instr.OpCode)
		}

		vm.pc++
	}

	debug.Printf("✅ Execução concluída!\n")
	return nil
}

// paraTexto converte um valor para sua forma impressa: inteiros em
// decimal, booleanos como "1" (verdadeiro) ou vazio (falso)
func paraTexto(valor Valor) string {
	switch valor.Tipo {
	case parser.TipoInteiro:
		return strconv.FormatInt(valor.Inteiro, 10)
	case parser.TipoBooleano:
		if valor.Booleano {
			return "1"
		}
		return ""
	default:
		return valor.Texto
	}
}

// verdadeiro aplica a interpretação de verdade de condições: inteiro
// zero e texto vazio são falsos
func verdadeiro(valor Valor) bool {
	switch valor.Tipo {
	case parser.TipoInteiro:
		return valor.Inteiro != 0
	case parser.TipoTexto:
		return valor.Texto != ""
	case parser.TipoBooleano:
		return valor.Booleano
	default:
		return true
	}
}

func comparar(op OpCode, a Valor, b Valor) bool {
	if a.Tipo == parser.TipoTexto {
		switch op {
		case OP_EQ:
			return a.Texto == b.Texto
		case OP_NE:
			return a.Texto != b.Texto
		}
	}
	if a.Tipo == parser.TipoBooleano {
		switch op {
		case OP_EQ:
			return a.Booleano == b.Booleano
		case OP_NE:
			return a.Booleano != b.Booleano
		}
	}

	switch op {
	case OP_EQ:
		return a.Inteiro == b.Inteiro
	case OP_NE:
		return a.Inteiro != b.Inteiro
	case OP_LT:
		return a.Inteiro < b.Inteiro
	case OP_GT:
		return a.Inteiro > b.Inteiro
	case OP_LE:
		return a.Inteiro <= b.Inteiro
	case OP_GE:
		return a.Inteiro >= b.Inteiro
	}
	return false
}

func (vm *VM) push(valor Valor) {
	if vm.stackTop >= len(vm.stack) {
		panic("stack overflow")
	}
	vm.stack[vm.stackTop] = valor
	vm.stackTop++
}

func (vm *VM) pop() Valor {
	if vm.stackTop <= 0 {
		panic("stack underflow")
	}
	vm.stackTop--
	return vm.stack[vm.stackTop]
}
