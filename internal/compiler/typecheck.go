package compiler

import (
	"fmt"

	"github.com/khevencolino/Vega/internal/lexer"
	"github.com/khevencolino/Vega/internal/parser"
	"github.com/khevencolino/Vega/internal/utils"
)

// VerificadorTipos valida a AST, atribui um tipo a cada expressão e
// constrói a tabela de símbolos consumida pelas etapas seguintes.
//
// Regras principais:
//   - uma variável adquire tipo na primeira atribuição; reatribuir com
//     tipo diferente é erro
//   - operadores aritméticos exigem inteiros dos dois lados
//   - concatenação aceita inteiro, texto e booleano (convertidos em texto)
//   - igualdade exige operandos do mesmo tipo; ordem exige inteiros
//   - condições aceitam qualquer tipo escalar (verdade ao estilo PHP)
type VerificadorTipos struct {
	tabela *parser.TabelaSimbolos
}

// NovoVerificadorTipos cria um verificador com tabela vazia
func NovoVerificadorTipos() *VerificadorTipos {
	return &VerificadorTipos{
		tabela: parser.NovaTabelaSimbolos(),
	}
}

// VerificarPrograma verifica todos os comandos e retorna a tabela de símbolos
func (v *VerificadorTipos) VerificarPrograma(comandos []parser.Comando) (*parser.TabelaSimbolos, error) {
	for _, comando := range comandos {
		if err := v.verificarComando(comando); err != nil {
			return nil, err
		}
	}
	return v.tabela, nil
}

func (v *VerificadorTipos) verificarComando(comando parser.Comando) error {
	switch cmd := comando.(type) {
	case *parser.Echo:
		for _, valor := range cmd.Valores {
			tipo, err := v.verificarExpressao(valor)
			if err != nil {
				return err
			}
			if tipo == parser.TipoArranjo {
				return v.erro(utils.ErroConstrucaoNaoSuportada, cmd.ObterToken(),
					"echo de arranjo completo não é suportado",
					"imprima os elementos individualmente")
			}
		}
		return nil

	case *parser.Atribuicao:
		return v.verificarAtribuicao(cmd)

	case *parser.AtribuicaoArranjo:
		return v.verificarAtribuicaoArranjo(cmd)

	case *parser.ComandoSe:
		if err := v.verificarCondicao(cmd.Condicao); err != nil {
			return err
		}
		if err := v.verificarComando(cmd.BlocoSe); err != nil {
			return err
		}
		if cmd.BlocoSenao != nil {
			return v.verificarComando(cmd.BlocoSenao)
		}
		return nil

	case *parser.ComandoEnquanto:
		if err := v.verificarCondicao(cmd.Condicao); err != nil {
			return err
		}
		return v.verificarComando(cmd.Corpo)

	case *parser.Bloco:
		for _, interno := range cmd.Comandos {
			if err := v.verificarComando(interno); err != nil {
				return err
			}
		}
		return nil

	case *parser.ComandoExpressao:
		_, err := v.verificarExpressao(cmd.Expressao)
		return err

	default:
		return v.erro(utils.ErroConstrucaoNaoSuportada, comando.ObterToken(),
			"comando não suportado",
			fmt.Sprintf("%T", comando))
	}
}

// verificarAtribuicao trata $x = expr, incluindo a declaração de arranjos
// a partir de literais
func (v *VerificadorTipos) verificarAtribuicao(cmd *parser.Atribuicao) error {
	if literal, eLiteral := cmd.Valor.(*parser.ArranjoLiteral); eLiteral {
		return v.declararArranjo(cmd, literal)
	}

	tipo, err := v.verificarExpressao(cmd.Valor)
	if err != nil {
		return err
	}
	if tipo == parser.TipoArranjo {
		return v.erro(utils.ErroConstrucaoNaoSuportada, cmd.ObterToken(),
			"atribuição de arranjo inteiro não é suportada",
			"arranjos são declarados por literal e modificados elemento a elemento")
	}

	simbolo, existe := v.tabela.Buscar(cmd.Nome)
	if !existe {
		v.tabela.Declarar(cmd.Nome, tipo)
		return nil
	}
	if simbolo.Tipo != tipo {
		return v.erro(utils.ErroTipoIncompativel, cmd.ObterToken(),
			fmt.Sprintf("variável '$%s' é %s e não pode receber %s", cmd.Nome, simbolo.Tipo, tipo),
			"o tipo de uma variável é fixado na primeira atribuição")
	}
	return nil
}

// declararArranjo fixa capacidade, tipo de elemento e chaves textuais
// de um arranjo a partir do literal atribuído
func (v *VerificadorTipos) declararArranjo(cmd *parser.Atribuicao, literal *parser.ArranjoLiteral) error {
	capacidade := 0
	tipoElemento := parser.TipoIndefinido
	chaves := make(map[string]int)
	proximoIndice := 0

	for _, elemento := range literal.Elementos {
		indice := proximoIndice

		if elemento.Chave != nil {
			switch chave := elemento.Chave.(type) {
			case *parser.Constante:
				indice = int(chave.Valor)
				if indice < 0 {
					return v.erro(utils.ErroTipoIncompativel, chave.ObterToken(),
						"índice de arranjo não pode ser negativo",
						fmt.Sprintf("índice %d", indice))
				}
			case *parser.Texto:
				// Chaves textuais viram índices sequenciais
				if _, repetida := chaves[chave.Valor]; repetida {
					return v.erro(utils.ErroTipoIncompativel, chave.ObterToken(),
						"chave repetida em literal de arranjo",
						fmt.Sprintf("chave %q", chave.Valor))
				}
				chaves[chave.Valor] = indice
			default:
				return v.erro(utils.ErroConstrucaoNaoSuportada, literal.ObterToken(),
					"chave de arranjo deve ser literal inteiro ou texto",
					elemento.Chave.String())
			}
		}

		tipoValor, err := v.verificarExpressao(elemento.Valor)
		if err != nil {
			return err
		}
		if tipoValor == parser.TipoArranjo {
			return v.erro(utils.ErroConstrucaoNaoSuportada, literal.ObterToken(),
				"arranjos aninhados não são suportados", "")
		}
		if tipoElemento == parser.TipoIndefinido {
			tipoElemento = tipoValor
		} else if tipoElemento != tipoValor {
			return v.erro(utils.ErroTipoIncompativel, elemento.Valor.ObterToken(),
				fmt.Sprintf("arranjo de %s não pode conter %s", tipoElemento, tipoValor),
				"todos os elementos de um arranjo têm o mesmo tipo")
		}

		if indice+1 > capacidade {
			capacidade = indice + 1
		}
		proximoIndice = indice + 1
	}

	simbolo, existe := v.tabela.Buscar(cmd.Nome)
	if !existe {
		simbolo = v.tabela.Declarar(cmd.Nome, parser.TipoArranjo)
		simbolo.Capacidade = capacidade
		simbolo.TipoElemento = tipoElemento
		simbolo.Chaves = chaves
		return nil
	}

	if !simbolo.EArranjo() {
		return v.erro(utils.ErroTipoIncompativel, cmd.ObterToken(),
			fmt.Sprintf("variável '$%s' é %s e não pode receber arranjo", cmd.Nome, simbolo.Tipo),
			"o tipo de uma variável é fixado na primeira atribuição")
	}
	if tipoElemento != parser.TipoIndefinido && simbolo.TipoElemento != parser.TipoIndefinido &&
		simbolo.TipoElemento != tipoElemento {
		return v.erro(utils.ErroTipoIncompativel, cmd.ObterToken(),
			fmt.Sprintf("arranjo '$%s' contém %s e não pode receber %s",
				cmd.Nome, simbolo.TipoElemento, tipoElemento),
			"")
	}
	if capacidade > simbolo.Capacidade {
		return v.erro(utils.ErroIndiceForaDaCapacidade, cmd.ObterToken(),
			fmt.Sprintf("literal com %d elementos excede a capacidade %d de '$%s'",
				capacidade, simbolo.Capacidade, cmd.Nome),
			"a capacidade de um arranjo é fixada na primeira declaração")
	}
	for chave, indice := range chaves {
		simbolo.Chaves[chave] = indice
	}
	return nil
}

// verificarAtribuicaoArranjo trata $a[i] = expr
func (v *VerificadorTipos) verificarAtribuicaoArranjo(cmd *parser.AtribuicaoArranjo) error {
	simbolo, existe := v.tabela.Buscar(cmd.Nome)
	if !existe {
		return v.erro(utils.ErroVariavelIndefinida, cmd.ObterToken(),
			fmt.Sprintf("variável '$%s' não foi definida", cmd.Nome), "")
	}
	if !simbolo.EArranjo() {
		return v.erro(utils.ErroTipoIncompativel, cmd.ObterToken(),
			fmt.Sprintf("variável '$%s' é %s e não pode ser indexada", cmd.Nome, simbolo.Tipo),
			"")
	}

	if err := v.verificarIndice(simbolo, cmd.Indice); err != nil {
		return err
	}

	tipoValor, err := v.verificarExpressao(cmd.Valor)
	if err != nil {
		return err
	}
	if tipoValor == parser.TipoArranjo {
		return v.erro(utils.ErroConstrucaoNaoSuportada, cmd.ObterToken(),
			"arranjos aninhados não são suportados", "")
	}
	if simbolo.TipoElemento == parser.TipoIndefinido {
		simbolo.TipoElemento = tipoValor
	} else if simbolo.TipoElemento != tipoValor {
		return v.erro(utils.ErroTipoIncompativel, cmd.ObterToken(),
			fmt.Sprintf("arranjo '$%s' contém %s e não pode receber %s",
				cmd.Nome, simbolo.TipoElemento, tipoValor),
			"")
	}
	return nil
}

// verificarIndice valida o índice de uma leitura ou escrita de arranjo.
// Índices inteiros constantes são checados contra a capacidade declarada;
// índices dinâmicos ficam para a checagem em tempo de execução.
func (v *VerificadorTipos) verificarIndice(simbolo *parser.Simbolo, indice parser.Expressao) error {
	if chave, eTexto := indice.(*parser.Texto); eTexto {
		if _, existe := simbolo.Chaves[chave.Valor]; !existe {
			return v.erro(utils.ErroVariavelIndefinida, indice.ObterToken(),
				fmt.Sprintf("chave %q não existe no arranjo '$%s'", chave.Valor, simbolo.Nome),
				"chaves textuais devem aparecer no literal de declaração")
		}
		return nil
	}

	tipoIndice, err := v.verificarExpressao(indice)
	if err != nil {
		return err
	}
	if tipoIndice != parser.TipoInteiro {
		return v.erro(utils.ErroTipoIncompativel, indice.ObterToken(),
			fmt.Sprintf("índice de arranjo deve ser inteiro, encontrado %s", tipoIndice),
			"")
	}

	if constante, eConstante := indice.(*parser.Constante); eConstante {
		if constante.Valor < 0 || constante.Valor >= int64(simbolo.Capacidade) {
			return v.erro(utils.ErroIndiceForaDaCapacidade, indice.ObterToken(),
				fmt.Sprintf("índice %d fora da capacidade %d de '$%s'",
					constante.Valor, simbolo.Capacidade, simbolo.Nome),
				"a capacidade de um arranjo é fixada na primeira declaração")
		}
	}
	return nil
}

// verificarCondicao aceita qualquer tipo escalar; a interpretação de
// verdade acontece na geração de código
func (v *VerificadorTipos) verificarCondicao(condicao parser.Expressao) error {
	tipo, err := v.verificarExpressao(condicao)
	if err != nil {
		return err
	}
	if tipo == parser.TipoArranjo {
		return v.erro(utils.ErroConstrucaoNaoSuportada, condicao.ObterToken(),
			"arranjo não pode ser usado como condição", "")
	}
	return nil
}

// verificarExpressao verifica uma expressão e decora a árvore com o tipo
// resultante
func (v *VerificadorTipos) verificarExpressao(expressao parser.Expressao) (parser.Tipo, error) {
	switch expr := expressao.(type) {
	case *parser.Constante:
		return parser.TipoInteiro, nil

	case *parser.Texto:
		return parser.TipoTexto, nil

	case *parser.Booleano:
		return parser.TipoBooleano, nil

	case *parser.Variavel:
		simbolo, existe := v.tabela.Buscar(expr.Nome)
		if !existe {
			return parser.TipoIndefinido, v.erro(utils.ErroVariavelIndefinida, expr.ObterToken(),
				fmt.Sprintf("variável '$%s' não foi definida", expr.Nome), "")
		}
		expr.Tipo = simbolo.Tipo
		return simbolo.Tipo, nil

	case *parser.OperacaoBinaria:
		return v.verificarOperacaoBinaria(expr)

	case *parser.Indexacao:
		return v.verificarIndexacao(expr)

	case *parser.ArranjoLiteral:
		return parser.TipoArranjo, nil

	default:
		return parser.TipoIndefinido, v.erro(utils.ErroConstrucaoNaoSuportada, expressao.ObterToken(),
			"expressão não suportada",
			fmt.Sprintf("%T", expressao))
	}
}

func (v *VerificadorTipos) verificarOperacaoBinaria(expr *parser.OperacaoBinaria) (parser.Tipo, error) {
	tipoEsquerda, err := v.verificarExpressao(expr.OperandoEsquerdo)
	if err != nil {
		return parser.TipoIndefinido, err
	}
	tipoDireita, err := v.verificarExpressao(expr.OperandoDireito)
	if err != nil {
		return parser.TipoIndefinido, err
	}

	if tipoEsquerda == parser.TipoArranjo || tipoDireita == parser.TipoArranjo {
		return parser.TipoIndefinido, v.erro(utils.ErroTipoIncompativel, expr.ObterToken(),
			fmt.Sprintf("operador '%s' não aceita arranjo", expr.Operador), "")
	}

	switch {
	case expr.Operador.EAritmetico():
		if tipoEsquerda != parser.TipoInteiro || tipoDireita != parser.TipoInteiro {
			return parser.TipoIndefinido, v.erro(utils.ErroTipoIncompativel, expr.ObterToken(),
				fmt.Sprintf("operador '%s' exige inteiros, encontrado %s e %s",
					expr.Operador, tipoEsquerda, tipoDireita),
				"use '.' para concatenar textos")
		}
		expr.Tipo = parser.TipoInteiro

	case expr.Operador == parser.CONCATENACAO:
		// Inteiros e booleanos são convertidos em texto na concatenação
		expr.Tipo = parser.TipoTexto

	case expr.Operador.EOrdenacao():
		if tipoEsquerda != parser.TipoInteiro || tipoDireita != parser.TipoInteiro {
			return parser.TipoIndefinido, v.erro(utils.ErroTipoIncompativel, expr.ObterToken(),
				fmt.Sprintf("operador '%s' exige inteiros, encontrado %s e %s",
					expr.Operador, tipoEsquerda, tipoDireita),
				"")
		}
		expr.Tipo = parser.TipoBooleano

	default: // igualdade e diferença
		if tipoEsquerda != tipoDireita {
			return parser.TipoIndefinido, v.erro(utils.ErroTipoIncompativel, expr.ObterToken(),
				fmt.Sprintf("operador '%s' exige operandos do mesmo tipo, encontrado %s e %s",
					expr.Operador, tipoEsquerda, tipoDireita),
				"")
		}
		expr.Tipo = parser.TipoBooleano
	}

	return expr.Tipo, nil
}

func (v *VerificadorTipos) verificarIndexacao(expr *parser.Indexacao) (parser.Tipo, error) {
	variavel, eVariavel := expr.Arranjo.(*parser.Variavel)
	if !eVariavel {
		return parser.TipoIndefinido, v.erro(utils.ErroConstrucaoNaoSuportada, expr.ObterToken(),
			"somente variáveis podem ser indexadas",
			expr.Arranjo.String())
	}

	simbolo, existe := v.tabela.Buscar(variavel.Nome)
	if !existe {
		return parser.TipoIndefinido, v.erro(utils.ErroVariavelIndefinida, variavel.ObterToken(),
			fmt.Sprintf("variável '$%s' não foi definida", variavel.Nome), "")
	}
	if !simbolo.EArranjo() {
		return parser.TipoIndefinido, v.erro(utils.ErroTipoIncompativel, expr.ObterToken(),
			fmt.Sprintf("variável '$%s' é %s e não pode ser indexada", variavel.Nome, simbolo.Tipo),
			"")
	}
	variavel.Tipo = parser.TipoArranjo

	if err := v.verificarIndice(simbolo, expr.Indice); err != nil {
		return parser.TipoIndefinido, err
	}

	expr.Tipo = simbolo.TipoElemento
	return expr.Tipo, nil
}

// erro monta um CompilerError com a posição do token
func (v *VerificadorTipos) erro(tipo utils.TipoErro, token lexer.Token, mensagem string, detalhes string) error {
	return utils.NovoErroTipado(tipo, mensagem, token.Position.Line, token.Position.Column, detalhes)
}
