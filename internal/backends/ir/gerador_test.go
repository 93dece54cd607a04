package ir_test

import (
	"testing"

	"github.com/khevencolino/Vega/internal/backends/ir"
	"github.com/khevencolino/Vega/internal/compiler"
	"github.com/khevencolino/Vega/internal/lexer"
	"github.com/khevencolino/Vega/internal/parser"
	"github.com/nalgeon/be"
)

func gerar(t *testing.T, fonte string) *ir.Programa {
	t.Helper()
	tokens, err := lexer.NovoLexer(fonte).Tokenizar()
	be.Err(t, err, nil)
	comandos, err := parser.NovoParser(tokens).AnalisarPrograma()
	be.Err(t, err, nil)
	tabela, err := compiler.NovoVerificadorTipos().VerificarPrograma(comandos)
	be.Err(t, err, nil)
	programa, err := ir.NovoGerador(tabela).GerarPrograma(comandos)
	be.Err(t, err, nil)
	return programa
}

func opcodes(programa *ir.Programa) []ir.OpCode {
	var resultado []ir.OpCode
	for _, instr := range programa.Instrucoes {
		resultado = append(resultado, instr.OpCode)
	}
	return resultado
}

func TestGerarExpressaoPosOrdem(t *testing.T) {
	programa := gerar(t, `$x = 5 + 3 * 2;`)

	be.Equal(t, opcodes(programa), []ir.OpCode{
		ir.OP_CONST_INT, ir.OP_CONST_INT, ir.OP_CONST_INT,
		ir.OP_MUL, ir.OP_SOMA, ir.OP_ARMAZENA,
	})
}

func TestGerarEchoPorExpressao(t *testing.T) {
	// Cada expressão do echo vira avaliação + impressão independente
	programa := gerar(t, `echo 1, "dois", true;`)

	be.Equal(t, opcodes(programa), []ir.OpCode{
		ir.OP_CONST_INT, ir.OP_IMPRIME,
		ir.OP_CONST_TEXTO, ir.OP_IMPRIME,
		ir.OP_CONST_BOOL, ir.OP_IMPRIME,
	})
	be.Equal(t, programa.Instrucoes[1].Tipo, parser.TipoInteiro)
	be.Equal(t, programa.Instrucoes[3].Tipo, parser.TipoTexto)
	be.Equal(t, programa.Instrucoes[5].Tipo, parser.TipoBooleano)
}

func TestGerarConcatenacaoConverteOperandos(t *testing.T) {
	programa := gerar(t, `echo "n = " . 42;`)

	be.Equal(t, opcodes(programa), []ir.OpCode{
		ir.OP_CONST_TEXTO, ir.OP_CONST_INT, ir.OP_TEXTO,
		ir.OP_CONCAT, ir.OP_IMPRIME,
	})
	// A conversão registra o tipo de origem
	be.Equal(t, programa.Instrucoes[2].Tipo, parser.TipoInteiro)
}

func TestGerarConcatenacaoDeTextosNaoConverte(t *testing.T) {
	programa := gerar(t, `echo "a" . "b";`)

	be.Equal(t, opcodes(programa), []ir.OpCode{
		ir.OP_CONST_TEXTO, ir.OP_CONST_TEXTO, ir.OP_CONCAT, ir.OP_IMPRIME,
	})
}

func TestGerarPoolDeduplicado(t *testing.T) {
	programa := gerar(t, `echo "abc", "def", "abc"; $x = "abc";`)

	be.Equal(t, programa.Textos, []string{"abc", "def"})
}

func TestGerarEnquanto(t *testing.T) {
	programa := gerar(t, `$i = 0; while ($i < 3) { $i = $i + 1; }`)

	// rótulo de início, condição, desvio para o fim, corpo, salto de
	// volta, rótulo de fim
	ops := opcodes(programa)
	be.Equal(t, ops[2], ir.OP_ROTULO)
	be.Equal(t, ops[5], ir.OP_LT)
	be.Equal(t, ops[6], ir.OP_SALTO_SE_FALSO)
	be.Equal(t, ops[len(ops)-2], ir.OP_SALTO)
	be.Equal(t, ops[len(ops)-1], ir.OP_ROTULO)

	// O salto de volta aponta para o rótulo de início
	be.Equal(t, programa.Instrucoes[len(programa.Instrucoes)-2].Operando,
		programa.Instrucoes[2].Operando)
}

func TestGerarRotulosUnicos(t *testing.T) {
	programa := gerar(t, `
	if (1) { echo 1; } else { echo 2; }
	if (2) { echo 3; } else { echo 4; }
	while (0) { echo 5; }`)

	vistos := map[int64]bool{}
	for _, instr := range programa.Instrucoes {
		if instr.OpCode == ir.OP_ROTULO {
			be.True(t, !vistos[instr.Operando])
			vistos[instr.Operando] = true
		}
	}
	be.Equal(t, len(vistos), 6)
}

func TestGerarSeSemSenao(t *testing.T) {
	programa := gerar(t, `if (1) { echo 1; }`)

	ops := opcodes(programa)
	be.Equal(t, ops, []ir.OpCode{
		ir.OP_CONST_INT, ir.OP_SALTO_SE_FALSO,
		ir.OP_CONST_INT, ir.OP_IMPRIME, ir.OP_ROTULO,
	})
}

func TestGerarLiteralArranjo(t *testing.T) {
	programa := gerar(t, `$a = array(7, 8);`)

	be.Equal(t, opcodes(programa), []ir.OpCode{
		ir.OP_ARRANJO_NOVO,
		ir.OP_CONST_INT, ir.OP_CONST_INT, ir.OP_ARRANJO_ARMAZENA,
		ir.OP_CONST_INT, ir.OP_CONST_INT, ir.OP_ARRANJO_ARMAZENA,
	})
	be.Equal(t, programa.Instrucoes[0].Extra, int64(2))
}

func TestGerarChaveTextualResolvida(t *testing.T) {
	programa := gerar(t, `$a = array("k" => 9); echo $a["k"];`)

	// A leitura por chave vira um índice inteiro constante
	var carrega *ir.Instrucao
	for i := range programa.Instrucoes {
		if programa.Instrucoes[i].OpCode == ir.OP_ARRANJO_CARREGA {
			carrega = &programa.Instrucoes[i]
		}
	}
	be.True(t, carrega != nil)
	be.Equal(t, programa.Instrucoes[len(programa.Instrucoes)-3].OpCode, ir.OP_CONST_INT)
	be.Equal(t, programa.Instrucoes[len(programa.Instrucoes)-3].Operando, int64(0))
}

func TestGerarExpressaoComoComandoDescarta(t *testing.T) {
	programa := gerar(t, `1 + 2;`)

	ops := opcodes(programa)
	be.Equal(t, ops[len(ops)-1], ir.OP_DESCARTA)
}

func TestGerarComparacaoDeTextos(t *testing.T) {
	programa := gerar(t, `$x = "a" != "b";`)

	var comparacao *ir.Instrucao
	for i := range programa.Instrucoes {
		if programa.Instrucoes[i].OpCode == ir.OP_NE {
			comparacao = &programa.Instrucoes[i]
		}
	}
	be.True(t, comparacao != nil)
	be.Equal(t, comparacao.Tipo, parser.TipoTexto)
}
