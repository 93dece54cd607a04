package ir

import (
	"fmt"

	"github.com/khevencolino/Vega/internal/debug"
	"github.com/khevencolino/Vega/internal/parser"
	"github.com/khevencolino/Vega/internal/utils"
)

// Gerador rebaixa a AST validada para a lista de instruções.
// As expressões seguem disciplina de pilha: cada expressão empilha
// exatamente um valor; operadores binários desempilham dois e empilham um.
type Gerador struct {
	tabela        *parser.TabelaSimbolos
	instrucoes    []Instrucao
	textos        []string
	indiceTextos  map[string]int64
	proximoRotulo int64
}

// NovoGerador cria um gerador sobre uma tabela de símbolos já preenchida
func NovoGerador(tabela *parser.TabelaSimbolos) *Gerador {
	return &Gerador{
		tabela:       tabela,
		instrucoes:   make([]Instrucao, 0),
		indiceTextos: make(map[string]int64),
	}
}

// GerarPrograma rebaixa os comandos e retorna o programa intermediário
func (g *Gerador) GerarPrograma(comandos []parser.Comando) (*Programa, error) {
	for _, comando := range comandos {
		if err := g.gerarComando(comando); err != nil {
			return nil, err
		}
	}

	programa := &Programa{
		Instrucoes: g.instrucoes,
		Textos:     g.textos,
		Tabela:     g.tabela,
	}

	debug.Printf("📊 Instruções geradas (%d):\n", len(programa.Instrucoes))
	if debug.Enabled {
		for i, instr := range programa.Instrucoes {
			debug.Printf("  %03d: %s\n", i, instr)
		}
		debug.Println()
	}

	return programa, nil
}

func (g *Gerador) gerarComando(comando parser.Comando) error {
	switch cmd := comando.(type) {
	case *parser.Echo:
		// Cada expressão vira avaliação + impressão, da esquerda para a
		// direita, sem separador entre elas
		for _, valor := range cmd.Valores {
			if err := g.gerarExpressao(valor); err != nil {
				return err
			}
			g.emitirTipada(OP_IMPRIME, 0, 0, valor.TipoValor(), valor.ObterToken().Position.Line)
		}
		return nil

	case *parser.Atribuicao:
		return g.gerarAtribuicao(cmd)

	case *parser.AtribuicaoArranjo:
		return g.gerarAtribuicaoArranjo(cmd)

	case *parser.ComandoSe:
		return g.gerarComandoSe(cmd)

	case *parser.ComandoEnquanto:
		return g.gerarComandoEnquanto(cmd)

	case *parser.Bloco:
		for _, interno := range cmd.Comandos {
			if err := g.gerarComando(interno); err != nil {
				return err
			}
		}
		return nil

	case *parser.ComandoExpressao:
		if err := g.gerarExpressao(cmd.Expressao); err != nil {
			return err
		}
		g.emitir(OP_DESCARTA, 0, cmd.ObterToken().Position.Line)
		return nil

	default:
		return g.erro(comando.ObterToken().Position.Line, "comando não suportado na geração",
			fmt.Sprintf("%T", comando))
	}
}

func (g *Gerador) gerarAtribuicao(cmd *parser.Atribuicao) error {
	simbolo, existe := g.tabela.Buscar(cmd.Nome)
	if !existe {
		return g.erro(cmd.Token.Position.Line, "variável sem símbolo na geração", cmd.Nome)
	}

	if literal, eLiteral := cmd.Valor.(*parser.ArranjoLiteral); eLiteral {
		return g.gerarLiteralArranjo(simbolo, literal)
	}

	if err := g.gerarExpressao(cmd.Valor); err != nil {
		return err
	}
	g.emitirTipada(OP_ARMAZENA, int64(simbolo.Slot), 0, simbolo.Tipo, cmd.Token.Position.Line)
	return nil
}

// gerarLiteralArranjo emite a alocação zerada do arranjo seguida de uma
// escrita por elemento do literal
func (g *Gerador) gerarLiteralArranjo(simbolo *parser.Simbolo, literal *parser.ArranjoLiteral) error {
	linha := literal.Token.Position.Line
	g.emitirTipada(OP_ARRANJO_NOVO, int64(simbolo.Slot), int64(simbolo.Capacidade),
		simbolo.TipoElemento, linha)

	proximoIndice := int64(0)
	for _, elemento := range literal.Elementos {
		indice := proximoIndice
		if elemento.Chave != nil {
			switch chave := elemento.Chave.(type) {
			case *parser.Constante:
				indice = chave.Valor
			case *parser.Texto:
				indice = int64(simbolo.Chaves[chave.Valor])
			}
		}

		if err := g.gerarExpressao(elemento.Valor); err != nil {
			return err
		}
		g.emitir(OP_CONST_INT, indice, linha)
		g.emitirTipada(OP_ARRANJO_ARMAZENA, int64(simbolo.Slot), int64(simbolo.Capacidade),
			simbolo.TipoElemento, linha)
		proximoIndice = indice + 1
	}
	return nil
}

func (g *Gerador) gerarAtribuicaoArranjo(cmd *parser.AtribuicaoArranjo) error {
	simbolo, existe := g.tabela.Buscar(cmd.Nome)
	if !existe {
		return g.erro(cmd.Token.Position.Line, "variável sem símbolo na geração", cmd.Nome)
	}

	// Ordem na pilha: valor, depois índice
	if err := g.gerarExpressao(cmd.Valor); err != nil {
		return err
	}
	if err := g.gerarIndice(simbolo, cmd.Indice); err != nil {
		return err
	}
	g.emitirTipada(OP_ARRANJO_ARMAZENA, int64(simbolo.Slot), int64(simbolo.Capacidade),
		simbolo.TipoElemento, cmd.Token.Position.Line)
	return nil
}

// gerarIndice empilha o índice de acesso; chaves textuais já foram
// resolvidas para índices inteiros pelo verificador
func (g *Gerador) gerarIndice(simbolo *parser.Simbolo, indice parser.Expressao) error {
	if chave, eTexto := indice.(*parser.Texto); eTexto {
		g.emitir(OP_CONST_INT, int64(simbolo.Chaves[chave.Valor]), chave.Token.Position.Line)
		return nil
	}
	return g.gerarExpressao(indice)
}

func (g *Gerador) gerarComandoSe(cmd *parser.ComandoSe) error {
	linha := cmd.Token.Position.Line

	if cmd.BlocoSenao == nil {
		rotuloFim := g.novoRotulo()
		if err := g.gerarCondicao(cmd.Condicao, rotuloFim); err != nil {
			return err
		}
		if err := g.gerarComando(cmd.BlocoSe); err != nil {
			return err
		}
		g.emitir(OP_ROTULO, rotuloFim, linha)
		return nil
	}

	rotuloSenao := g.novoRotulo()
	rotuloFim := g.novoRotulo()

	if err := g.gerarCondicao(cmd.Condicao, rotuloSenao); err != nil {
		return err
	}
	if err := g.gerarComando(cmd.BlocoSe); err != nil {
		return err
	}
	g.emitir(OP_SALTO, rotuloFim, linha)
	g.emitir(OP_ROTULO, rotuloSenao, linha)
	if err := g.gerarComando(cmd.BlocoSenao); err != nil {
		return err
	}
	g.emitir(OP_ROTULO, rotuloFim, linha)
	return nil
}

func (g *Gerador) gerarComandoEnquanto(cmd *parser.ComandoEnquanto) error {
	linha := cmd.Token.Position.Line
	rotuloInicio := g.novoRotulo()
	rotuloFim := g.novoRotulo()

	g.emitir(OP_ROTULO, rotuloInicio, linha)
	if err := g.gerarCondicao(cmd.Condicao, rotuloFim); err != nil {
		return err
	}
	if err := g.gerarComando(cmd.Corpo); err != nil {
		return err
	}
	g.emitir(OP_SALTO, rotuloInicio, linha)
	g.emitir(OP_ROTULO, rotuloFim, linha)
	return nil
}

// gerarCondicao avalia a condição e salta para rotuloFalso quando ela
// não é verdadeira; o tipo anotado decide a interpretação de verdade
// (inteiro zero é falso, texto vazio é falso, booleano é usado direto)
func (g *Gerador) gerarCondicao(condicao parser.Expressao, rotuloFalso int64) error {
	if err := g.gerarExpressao(condicao); err != nil {
		return err
	}
	g.emitirTipada(OP_SALTO_SE_FALSO, rotuloFalso, 0, condicao.TipoValor(),
		condicao.ObterToken().Position.Line)
	return nil
}

func (g *Gerador) gerarExpressao(expressao parser.Expressao) error {
	switch expr := expressao.(type) {
	case *parser.Constante:
		g.emitir(OP_CONST_INT, expr.Valor, expr.Token.Position.Line)
		return nil

	case *parser.Texto:
		g.emitir(OP_CONST_TEXTO, g.internarTexto(expr.Valor), expr.Token.Position.Line)
		return nil

	case *parser.Booleano:
		valor := int64(0)
		if expr.Valor {
			valor = 1
		}
		g.emitir(OP_CONST_BOOL, valor, expr.Token.Position.Line)
		return nil

	case *parser.Variavel:
		simbolo, existe := g.tabela.Buscar(expr.Nome)
		if !existe {
			return g.erro(expr.Token.Position.Line, "variável sem símbolo na geração", expr.Nome)
		}
		g.emitirTipada(OP_CARREGA, int64(simbolo.Slot), 0, simbolo.Tipo, expr.Token.Position.Line)
		return nil

	case *parser.OperacaoBinaria:
		return g.gerarOperacaoBinaria(expr)

	case *parser.Indexacao:
		variavel := expr.Arranjo.(*parser.Variavel)
		simbolo, existe := g.tabela.Buscar(variavel.Nome)
		if !existe {
			return g.erro(expr.Token.Position.Line, "variável sem símbolo na geração", variavel.Nome)
		}
		if err := g.gerarIndice(simbolo, expr.Indice); err != nil {
			return err
		}
		g.emitirTipada(OP_ARRANJO_CARREGA, int64(simbolo.Slot), int64(simbolo.Capacidade),
			simbolo.TipoElemento, expr.Token.Position.Line)
		return nil

	default:
		return g.erro(expressao.ObterToken().Position.Line, "expressão não suportada na geração",
			fmt.Sprintf("%T", expressao))
	}
}

func (g *Gerador) gerarOperacaoBinaria(expr *parser.OperacaoBinaria) error {
	linha := expr.Token.Position.Line

	// Concatenação converte operandos não textuais antes de concatenar
	if expr.Operador == parser.CONCATENACAO {
		if err := g.gerarOperandoTexto(expr.OperandoEsquerdo); err != nil {
			return err
		}
		if err := g.gerarOperandoTexto(expr.OperandoDireito); err != nil {
			return err
		}
		g.emitirTipada(OP_CONCAT, 0, 0, parser.TipoTexto, linha)
		return nil
	}

	if err := g.gerarExpressao(expr.OperandoEsquerdo); err != nil {
		return err
	}
	if err := g.gerarExpressao(expr.OperandoDireito); err != nil {
		return err
	}

	tipoOperandos := expr.OperandoEsquerdo.TipoValor()
	switch expr.Operador {
	case parser.ADICAO:
		g.emitir(OP_SOMA, 0, linha)
	case parser.SUBTRACAO:
		g.emitir(OP_SUB, 0, linha)
	case parser.MULTIPLICACAO:
		g.emitir(OP_MUL, 0, linha)
	case parser.DIVISAO:
		g.emitir(OP_DIV, 0, linha)
	case parser.IGUALDADE:
		g.emitirTipada(OP_EQ, 0, 0, tipoOperandos, linha)
	case parser.DIFERENCA:
		g.emitirTipada(OP_NE, 0, 0, tipoOperandos, linha)
	case parser.MENOR_QUE:
		g.emitirTipada(OP_LT, 0, 0, tipoOperandos, linha)
	case parser.MAIOR_QUE:
		g.emitirTipada(OP_GT, 0, 0, tipoOperandos, linha)
	case parser.MENOR_IGUAL:
		g.emitirTipada(OP_LE, 0, 0, tipoOperandos, linha)
	case parser.MAIOR_IGUAL:
		g.emitirTipada(OP_GE, 0, 0, tipoOperandos, linha)
	default:
		return g.erro(linha, "operador não suportado na geração", expr.Operador.String())
	}
	return nil
}

// gerarOperandoTexto avalia um operando de concatenação e, quando
// preciso, converte o resultado em texto
func (g *Gerador) gerarOperandoTexto(operando parser.Expressao) error {
	if err := g.gerarExpressao(operando); err != nil {
		return err
	}
	tipo := operando.TipoValor()
	if tipo != parser.TipoTexto {
		g.emitirTipada(OP_TEXTO, 0, 0, tipo, operando.ObterToken().Position.Line)
	}
	return nil
}

// internarTexto devolve o índice do texto no pool, inserindo uma única
// vez cada sequência de bytes distinta
func (g *Gerador) internarTexto(valor string) int64 {
	if indice, existe := g.indiceTextos[valor]; existe {
		return indice
	}
	indice := int64(len(g.textos))
	g.textos = append(g.textos, valor)
	g.indiceTextos[valor] = indice
	return indice
}

func (g *Gerador) novoRotulo() int64 {
	rotulo := g.proximoRotulo
	g.proximoRotulo++
	return rotulo
}

func (g *Gerador) emitir(op OpCode, operando int64, linha int) {
	g.instrucoes = append(g.instrucoes, Instrucao{
		OpCode:   op,
		Operando: operando,
		Linha:    linha,
	})
}

func (g *Gerador) emitirTipada(op OpCode, operando int64, extra int64, tipo parser.Tipo, linha int) {
	g.instrucoes = append(g.instrucoes, Instrucao{
		OpCode:   op,
		Operando: operando,
		Extra:    extra,
		Tipo:     tipo,
		Linha:    linha,
	})
}

func (g *Gerador) erro(linha int, mensagem string, detalhes string) error {
	return utils.NovoErroTipado(utils.ErroConstrucaoNaoSuportada, mensagem, linha, 0, detalhes)
}
