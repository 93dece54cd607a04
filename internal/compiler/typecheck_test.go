package compiler

import (
	"errors"
	"testing"

	"github.com/khevencolino/Vega/internal/lexer"
	"github.com/khevencolino/Vega/internal/parser"
	"github.com/khevencolino/Vega/internal/utils"
	"github.com/nalgeon/be"
)

func analisar(t *testing.T, fonte string) []parser.Comando {
	t.Helper()
	tokens, err := lexer.NovoLexer(fonte).Tokenizar()
	be.Err(t, err, nil)
	comandos, err := parser.NovoParser(tokens).AnalisarPrograma()
	be.Err(t, err, nil)
	return comandos
}

func verificar(t *testing.T, fonte string) (*parser.TabelaSimbolos, error) {
	t.Helper()
	return NovoVerificadorTipos().VerificarPrograma(analisar(t, fonte))
}

func tipoDoErro(t *testing.T, err error) utils.TipoErro {
	t.Helper()
	var compilerError *utils.CompilerError
	be.True(t, errors.As(err, &compilerError))
	return compilerError.Tipo
}

func TestVerificarTiposBasicos(t *testing.T) {
	tabela, err := verificar(t, `$n = 42; $s = "texto"; $b = true;`)
	be.Err(t, err, nil)

	n, _ := tabela.Buscar("n")
	be.Equal(t, n.Tipo, parser.TipoInteiro)
	s, _ := tabela.Buscar("s")
	be.Equal(t, s.Tipo, parser.TipoTexto)
	b, _ := tabela.Buscar("b")
	be.Equal(t, b.Tipo, parser.TipoBooleano)
}

func TestVerificarSlotsEmOrdem(t *testing.T) {
	tabela, err := verificar(t, `$a = 1; $b = 2; $a = 3; $c = 4;`)
	be.Err(t, err, nil)

	be.Equal(t, tabela.Quantidade(), 3)
	a, _ := tabela.Buscar("a")
	b, _ := tabela.Buscar("b")
	c, _ := tabela.Buscar("c")
	be.Equal(t, a.Slot, 0)
	be.Equal(t, b.Slot, 1)
	be.Equal(t, c.Slot, 2)
}

func TestVerificarVariavelIndefinida(t *testing.T) {
	_, err := verificar(t, `echo $fantasma;`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroVariavelIndefinida)
}

func TestVerificarAritmeticaComTexto(t *testing.T) {
	_, err := verificar(t, `$x = "a" + 1;`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroTipoIncompativel)
}

func TestVerificarReatribuicaoComOutroTipo(t *testing.T) {
	_, err := verificar(t, `$x = 1; $x = "texto";`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroTipoIncompativel)
}

func TestVerificarConcatenacaoMista(t *testing.T) {
	// Concatenação aceita inteiro, texto e booleano
	_, err := verificar(t, `$x = "total: " . 42 . true;`)
	be.Err(t, err, nil)
}

func TestVerificarComparacaoDeTiposDistintos(t *testing.T) {
	_, err := verificar(t, `$x = 1 == "um";`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroTipoIncompativel)
}

func TestVerificarOrdenacaoDeTextos(t *testing.T) {
	_, err := verificar(t, `$x = "a" < "b";`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroTipoIncompativel)
}

func TestVerificarDecoracaoDaArvore(t *testing.T) {
	comandos := analisar(t, `$x = 2 + 3; $y = $x < 10;`)
	_, err := NovoVerificadorTipos().VerificarPrograma(comandos)
	be.Err(t, err, nil)

	soma := comandos[0].(*parser.Atribuicao).Valor.(*parser.OperacaoBinaria)
	be.Equal(t, soma.TipoValor(), parser.TipoInteiro)

	comparacao := comandos[1].(*parser.Atribuicao).Valor.(*parser.OperacaoBinaria)
	be.Equal(t, comparacao.TipoValor(), parser.TipoBooleano)

	variavel := comparacao.OperandoEsquerdo.(*parser.Variavel)
	be.Equal(t, variavel.TipoValor(), parser.TipoInteiro)
}

func TestVerificarCondicaoDeQualquerTipoEscalar(t *testing.T) {
	_, err := verificar(t, `$s = "x"; if ($s) { echo 1; } while (0) { echo 2; }`)
	be.Err(t, err, nil)
}

func TestVerificarArranjoDeclarado(t *testing.T) {
	tabela, err := verificar(t, `$a = array(10, 20, 30);`)
	be.Err(t, err, nil)

	a, _ := tabela.Buscar("a")
	be.True(t, a.EArranjo())
	be.Equal(t, a.Capacidade, 3)
	be.Equal(t, a.TipoElemento, parser.TipoInteiro)
}

func TestVerificarArranjoComChavesTextuais(t *testing.T) {
	tabela, err := verificar(t, `$a = array("nome" => "ada", "linguagem" => "php"); echo $a["nome"];`)
	be.Err(t, err, nil)

	a, _ := tabela.Buscar("a")
	be.Equal(t, a.Capacidade, 2)
	be.Equal(t, a.Chaves["nome"], 0)
	be.Equal(t, a.Chaves["linguagem"], 1)
}

func TestVerificarChaveInexistente(t *testing.T) {
	_, err := verificar(t, `$a = array("x" => 1); echo $a["y"];`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroVariavelIndefinida)
}

func TestVerificarArranjoComChaveInteira(t *testing.T) {
	// A capacidade acompanha o maior índice observado
	tabela, err := verificar(t, `$a = array(5 => 1);`)
	be.Err(t, err, nil)

	a, _ := tabela.Buscar("a")
	be.Equal(t, a.Capacidade, 6)
}

func TestVerificarArranjoMisturado(t *testing.T) {
	_, err := verificar(t, `$a = array(1, "dois");`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroTipoIncompativel)
}

func TestVerificarIndiceConstanteForaDaCapacidade(t *testing.T) {
	_, err := verificar(t, `$a = array(1, 2); echo $a[2];`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroIndiceForaDaCapacidade)
}

func TestVerificarEscritaForaDaCapacidade(t *testing.T) {
	// Escrever uma posição além da última declarada é rejeitado
	_, err := verificar(t, `$a = array(1, 2); $a[2] = 3;`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroIndiceForaDaCapacidade)
}

func TestVerificarIndiceDinamico(t *testing.T) {
	// Índice calculado em tempo de execução passa pela verificação
	_, err := verificar(t, `$a = array(1, 2, 3); $i = 1; echo $a[$i + 1];`)
	be.Err(t, err, nil)
}

func TestVerificarIndiceComTipoErrado(t *testing.T) {
	_, err := verificar(t, `$a = array(1, 2); $b = true; echo $a[$b];`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroTipoIncompativel)
}

func TestVerificarElementoComTipoErrado(t *testing.T) {
	_, err := verificar(t, `$a = array(1, 2); $a[0] = "texto";`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroTipoIncompativel)
}

func TestVerificarEchoDeArranjoCompleto(t *testing.T) {
	_, err := verificar(t, `$a = array(1); echo $a;`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroConstrucaoNaoSuportada)
}

func TestVerificarIndexacaoDeEscalar(t *testing.T) {
	_, err := verificar(t, `$x = 1; echo $x[0];`)
	be.Equal(t, tipoDoErro(t, err), utils.ErroTipoIncompativel)
}
