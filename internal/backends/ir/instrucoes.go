package ir

import (
	"fmt"
	"strconv"

	"github.com/khevencolino/Vega/internal/parser"
)

type OpCode byte

const (
	OP_CONST_INT   OpCode = iota // CONST_INT valor
	OP_CONST_TEXTO               // CONST_TEXTO índice_no_pool
	OP_CONST_BOOL                // CONST_BOOL 0|1
	OP_CARREGA                   // CARREGA slot
	OP_ARMAZENA                  // ARMAZENA slot
	OP_DESCARTA                  // DESCARTA (remove o topo da pilha)
	OP_SOMA                      // SOMA
	OP_SUB                       // SUB
	OP_MUL                       // MUL
	OP_DIV                       // DIV
	OP_CONCAT                    // CONCAT (dois textos -> texto alocado)
	OP_TEXTO                     // TEXTO (converte o topo em texto; Tipo = tipo de origem)

	// Comparações (Tipo = tipo dos operandos)
	OP_EQ // EQUAL (==)
	OP_NE // NOT_EQUAL (!=)
	OP_LT // LESS_THAN (<)
	OP_GT // GREATER_THAN (>)
	OP_LE // LESS_EQUAL (<=)
	OP_GE // GREATER_EQUAL (>=)

	// Estruturas de controle (Operando = identificador de rótulo)
	OP_SALTO          // SALTO rotulo
	OP_SALTO_SE_FALSO // SALTO_SE_FALSO rotulo (Tipo = tipo da condição)
	OP_ROTULO         // ROTULO rotulo

	OP_IMPRIME // IMPRIME (Tipo = tipo do valor)

	// Arranjos (Operando = slot, Extra = capacidade)
	OP_ARRANJO_NOVO     // ARRANJO_NOVO slot capacidade (zera a região)
	OP_ARRANJO_CARREGA  // ARRANJO_CARREGA slot capacidade (índice na pilha)
	OP_ARRANJO_ARMAZENA // ARRANJO_ARMAZENA slot capacidade (valor e índice na pilha)
)

// Instrucao é uma operação da lista intermediária. O significado de
// Operando e Extra depende do opcode; Tipo carrega o tipo do valor
// quando a operação depende dele (impressão, comparação, conversão,
// salto condicional).
type Instrucao struct {
	OpCode   OpCode
	Operando int64
	Extra    int64
	Tipo     parser.Tipo
	Linha    int // para diagnóstico
}

// Programa reúne a lista de instruções com a tabela de símbolos e o
// pool de textos, tudo que um backend precisa para emitir código.
type Programa struct {
	Instrucoes []Instrucao
	Textos     []string // pool deduplicado, na ordem de primeira aparição
	Tabela     *parser.TabelaSimbolos
}

func (op OpCode) String() string {
	switch op {
	case OP_CONST_INT:
		return "CONST_INT"
	case OP_CONST_TEXTO:
		return "CONST_TEXTO"
	case OP_CONST_BOOL:
		return "CONST_BOOL"
	case OP_CARREGA:
		return "CARREGA"
	case OP_ARMAZENA:
		return "ARMAZENA"
	case OP_DESCARTA:
		return "DESCARTA"
	case OP_SOMA:
		return "SOMA"
	case OP_SUB:
		return "SUB"
	case OP_MUL:
		return "MUL"
	case OP_DIV:
		return "DIV"
	case OP_CONCAT:
		return "CONCAT"
	case OP_TEXTO:
		return "TEXTO"
	case OP_EQ:
		return "EQ"
	case OP_NE:
		return "NE"
	case OP_LT:
		return "LT"
	case OP_GT:
		return "GT"
	case OP_LE:
		return "LE"
	case OP_GE:
		return "GE"
	case OP_SALTO:
		return "SALTO"
	case OP_SALTO_SE_FALSO:
		return "SALTO_SE_FALSO"
	case OP_ROTULO:
		return "ROTULO"
	case OP_IMPRIME:
		return "IMPRIME"
	case OP_ARRANJO_NOVO:
		return "ARRANJO_NOVO"
	case OP_ARRANJO_CARREGA:
		return "ARRANJO_CARREGA"
	case OP_ARRANJO_ARMAZENA:
		return "ARRANJO_ARMAZENA"
	default:
		return "UNKNOWN"
	}
}

// String formata a instrução para depuração
func (i Instrucao) String() string {
	switch i.OpCode {
	case OP_SOMA, OP_SUB, OP_MUL, OP_DIV, OP_CONCAT, OP_DESCARTA,
		OP_EQ, OP_NE, OP_LT, OP_GT, OP_LE, OP_GE, OP_IMPRIME, OP_TEXTO:
		return i.OpCode.String()
	case OP_ARRANJO_NOVO, OP_ARRANJO_CARREGA, OP_ARRANJO_ARMAZENA:
		return fmt.Sprintf("%s %d %d", i.OpCode, i.Operando, i.Extra)
	default:
		return i.OpCode.String() + " " + strconv.FormatInt(i.Operando, 10)
	}
}

// DeltaPilha retorna a variação da profundidade da pilha de avaliação
// causada pela instrução. Usado pelo backend para dimensionar a área
// de derramamento antes de emitir código.
func (i Instrucao) DeltaPilha() int {
	switch i.OpCode {
	case OP_CONST_INT, OP_CONST_TEXTO, OP_CONST_BOOL, OP_CARREGA:
		return +1
	case OP_SOMA, OP_SUB, OP_MUL, OP_DIV, OP_CONCAT,
		OP_EQ, OP_NE, OP_LT, OP_GT, OP_LE, OP_GE:
		return -1
	case OP_ARMAZENA, OP_DESCARTA, OP_IMPRIME, OP_SALTO_SE_FALSO:
		return -1
	case OP_ARRANJO_ARMAZENA:
		return -2
	case OP_ARRANJO_CARREGA:
		return 0 // consome o índice, empilha o elemento
	default:
		return 0
	}
}
