package parser

import (
	"fmt"
	"strconv"

	"github.com/khevencolino/Vega/internal/lexer"
	"github.com/khevencolino/Vega/internal/utils"
)

// Precedencia define a precedência dos operadores
type Precedencia int

const (
	PRECEDENCIA_NENHUMA       Precedencia = iota
	PRECEDENCIA_COMPARACAO                // == != < > <= >=
	PRECEDENCIA_SOMA                      // + - .
	PRECEDENCIA_MULTIPLICACAO             // * /
)

// Parser representa o analisador sintático
type Parser struct {
	tokens       []lexer.Token
	posicaoAtual int
}

// NovoParser cria um novo analisador sintático
func NovoParser(tokens []lexer.Token) *Parser {
	return &Parser{
		tokens:       tokens,
		posicaoAtual: 0,
	}
}

// obterPrecedencia retorna a precedência de um operador
func (p *Parser) obterPrecedencia(tokenType lexer.TokenType) Precedencia {
	switch tokenType {
	case lexer.EQUAL, lexer.NOT_EQUAL, lexer.LESS, lexer.GREATER, lexer.LESS_EQUAL, lexer.GREATER_EQUAL:
		return PRECEDENCIA_COMPARACAO
	case lexer.PLUS, lexer.MINUS, lexer.DOT:
		return PRECEDENCIA_SOMA
	case lexer.MULTIPLY, lexer.DIVIDE:
		return PRECEDENCIA_MULTIPLICACAO
	default:
		return PRECEDENCIA_NENHUMA
	}
}

// AnalisarPrograma analisa um programa completo
func (p *Parser) AnalisarPrograma() ([]Comando, error) {
	var comandos []Comando

	for !p.chegouAoFim() {
		comando, err := p.analisarComando()
		if err != nil {
			return nil, err
		}
		comandos = append(comandos, comando)
	}

	if len(comandos) == 0 {
		return nil, utils.NovoErro("programa vazio", 0, 0, "")
	}

	return comandos, nil
}

// analisarComando analisa um comando (statement)
func (p *Parser) analisarComando() (Comando, error) {
	token := p.tokenAtual()

	switch token.Type {
	case lexer.ECHO:
		return p.analisarEcho()
	case lexer.IF:
		return p.analisarComandoSe()
	case lexer.WHILE:
		return p.analisarComandoEnquanto()
	case lexer.LBRACE:
		p.proximoToken() // consome '{'
		return p.analisarBloco(token)
	case lexer.VARIABLE:
		return p.analisarAtribuicaoOuExpressao()
	}

	return p.analisarComandoExpressao()
}

// analisarEcho analisa um comando echo com uma ou mais expressões
func (p *Parser) analisarEcho() (Comando, error) {
	tokenEcho := p.proximoToken() // consome "echo"

	var valores []Expressao
	for {
		valor, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
		if err != nil {
			return nil, err
		}
		valores = append(valores, valor)

		if p.tokenAtual().Type != lexer.COMMA {
			break
		}
		p.proximoToken() // consome ','
	}

	if err := p.verificarProximoToken(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	return &Echo{Valores: valores, Token: tokenEcho}, nil
}

// analisarAtribuicaoOuExpressao decide entre atribuição ($x = ..., $x[i] = ...)
// e expressão usada como comando
func (p *Parser) analisarAtribuicaoOuExpressao() (Comando, error) {
	posicaoInicial := p.posicaoAtual
	tokenVariavel := p.proximoToken() // consome a variável

	// Atribuição simples: $x = expr;
	if p.tokenAtual().Type == lexer.ASSIGN {
		p.proximoToken() // consome '='
		valor, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
		if err != nil {
			return nil, err
		}
		if err := p.verificarProximoToken(lexer.SEMICOLON); err != nil {
			return nil, err
		}
		return &Atribuicao{Nome: tokenVariavel.Value, Valor: valor, Token: tokenVariavel}, nil
	}

	// Atribuição a elemento: $x[indice] = expr;
	if p.tokenAtual().Type == lexer.LBRACKET {
		p.proximoToken() // consome '['
		indice, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
		if err != nil {
			return nil, err
		}
		if err := p.verificarProximoToken(lexer.RBRACKET); err != nil {
			return nil, err
		}

		if p.tokenAtual().Type == lexer.ASSIGN {
			p.proximoToken() // consome '='
			valor, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
			if err != nil {
				return nil, err
			}
			if err := p.verificarProximoToken(lexer.SEMICOLON); err != nil {
				return nil, err
			}
			return &AtribuicaoArranjo{
				Nome:   tokenVariavel.Value,
				Indice: indice,
				Valor:  valor,
				Token:  tokenVariavel,
			}, nil
		}
	}

	// Não é atribuição: volta ao início e analisa como expressão
	p.posicaoAtual = posicaoInicial
	return p.analisarComandoExpressao()
}

// analisarComandoExpressao analisa uma expressão seguida de ';'
func (p *Parser) analisarComandoExpressao() (Comando, error) {
	token := p.tokenAtual()
	expressao, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
	if err != nil {
		return nil, err
	}
	if err := p.verificarProximoToken(lexer.SEMICOLON); err != nil {
		return nil, err
	}
	return &ComandoExpressao{Expressao: expressao, Token: token}, nil
}

// analisarExpressao implementa precedência de operadores usando o algoritmo Pratt
func (p *Parser) analisarExpressao(precedenciaMinima Precedencia) (Expressao, error) {
	// Analisa o lado esquerdo (prefixo)
	esquerda, err := p.analisarPrefixo()
	if err != nil {
		return nil, err
	}

	// Processa operadores binários com precedência adequada
	for {
		tokenAtual := p.tokenAtual()
		precedenciaAtual := p.obterPrecedencia(tokenAtual.Type)

		// Se não é um operador binário ou a precedência é menor que a mínima, para
		if precedenciaAtual == PRECEDENCIA_NENHUMA || precedenciaAtual < precedenciaMinima {
			break
		}

		// Consome o operador
		operadorToken := p.proximoToken()
		operador, err := p.tokenParaOperador(operadorToken)
		if err != nil {
			return nil, err
		}

		// Analisa o lado direito com precedência maior (associatividade à esquerda)
		direita, err := p.analisarExpressao(precedenciaAtual + 1)
		if err != nil {
			return nil, err
		}

		esquerda = &OperacaoBinaria{
			OperandoEsquerdo: esquerda,
			Operador:         operador,
			OperandoDireito:  direita,
			Token:            operadorToken,
		}
	}

	return esquerda, nil
}

// analisarPrefixo analisa expressões prefixas (literais, variáveis, arranjos,
// expressões parentizadas e negação unária)
func (p *Parser) analisarPrefixo() (Expressao, error) {
	token := p.proximoToken()

	switch token.Type {
	case lexer.NUMBER:
		valor, err := strconv.ParseInt(token.Value, 10, 64)
		if err != nil {
			return nil, utils.NovoErro(
				"erro ao converter número",
				token.Position.Line,
				token.Position.Column,
				err.Error(),
			)
		}
		return &Constante{Valor: valor, Token: token}, nil

	case lexer.STRING:
		return &Texto{Valor: token.Value, Token: token}, nil

	case lexer.TRUE:
		return &Booleano{Valor: true, Token: token}, nil

	case lexer.FALSE:
		return &Booleano{Valor: false, Token: token}, nil

	case lexer.VARIABLE:
		return p.analisarPosfixo(&Variavel{Nome: token.Value, Token: token})

	case lexer.MINUS:
		// Negação unária vira 0 - operando
		operando, err := p.analisarPrefixo()
		if err != nil {
			return nil, err
		}
		return &OperacaoBinaria{
			OperandoEsquerdo: &Constante{Valor: 0, Token: token},
			Operador:         SUBTRACAO,
			OperandoDireito:  operando,
			Token:            token,
		}, nil

	case lexer.LPAREN:
		// Expressão parentizada
		expressao, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
		if err != nil {
			return nil, err
		}
		if err := p.verificarProximoToken(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expressao, nil

	case lexer.ARRAY:
		// Forma array(...)
		if err := p.verificarProximoToken(lexer.LPAREN); err != nil {
			return nil, err
		}
		return p.analisarElementosArranjo(token, lexer.RPAREN)

	case lexer.LBRACKET:
		// Forma [...]
		return p.analisarElementosArranjo(token, lexer.RBRACKET)

	default:
		return nil, utils.NovoErro(
			"expressão inválida",
			token.Position.Line,
			token.Position.Column,
			fmt.Sprintf("esperado literal, variável, arranjo ou '(', encontrado '%s'", token.Value),
		)
	}
}

// analisarPosfixo analisa indexações após uma variável ($a[i])
func (p *Parser) analisarPosfixo(base Expressao) (Expressao, error) {
	for p.tokenAtual().Type == lexer.LBRACKET {
		tokenColchete := p.proximoToken() // consome '['
		indice, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
		if err != nil {
			return nil, err
		}
		if err := p.verificarProximoToken(lexer.RBRACKET); err != nil {
			return nil, err
		}
		base = &Indexacao{Arranjo: base, Indice: indice, Token: tokenColchete}
	}
	return base, nil
}

// analisarElementosArranjo analisa a lista de elementos de um literal de
// arranjo, nas formas sequencial (a, b, c) e com chave (k => v)
func (p *Parser) analisarElementosArranjo(tokenInicio lexer.Token, fechamento lexer.TokenType) (Expressao, error) {
	var elementos []ElementoArranjo

	if p.tokenAtual().Type != fechamento {
		for {
			expressao, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
			if err != nil {
				return nil, err
			}

			elemento := ElementoArranjo{Valor: expressao}
			if p.tokenAtual().Type == lexer.DOUBLE_ARROW {
				p.proximoToken() // consome '=>'
				valor, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
				if err != nil {
					return nil, err
				}
				elemento = ElementoArranjo{Chave: expressao, Valor: valor}
			}
			elementos = append(elementos, elemento)

			if p.tokenAtual().Type != lexer.COMMA {
				break
			}
			p.proximoToken() // consome ','

			// Vírgula final antes do fechamento é permitida
			if p.tokenAtual().Type == fechamento {
				break
			}
		}
	}

	if err := p.verificarProximoToken(fechamento); err != nil {
		return nil, err
	}

	return &ArranjoLiteral{Elementos: elementos, Token: tokenInicio}, nil
}

// tokenParaOperador converte um token em um TipoOperador
func (p *Parser) tokenParaOperador(token lexer.Token) (TipoOperador, error) {
	switch token.Type {
	case lexer.PLUS:
		return ADICAO, nil
	case lexer.MINUS:
		return SUBTRACAO, nil
	case lexer.MULTIPLY:
		return MULTIPLICACAO, nil
	case lexer.DIVIDE:
		return DIVISAO, nil
	case lexer.DOT:
		return CONCATENACAO, nil
	case lexer.EQUAL:
		return IGUALDADE, nil
	case lexer.NOT_EQUAL:
		return DIFERENCA, nil
	case lexer.LESS:
		return MENOR_QUE, nil
	case lexer.GREATER:
		return MAIOR_QUE, nil
	case lexer.LESS_EQUAL:
		return MENOR_IGUAL, nil
	case lexer.GREATER_EQUAL:
		return MAIOR_IGUAL, nil
	default:
		return 0, utils.NovoErro(
			"operador inválido",
			token.Position.Line,
			token.Position.Column,
			fmt.Sprintf("esperado operador (+, -, *, /, ., ==, !=, <, >, <=, >=), encontrado '%s'", token.Value),
		)
	}
}

// analisarComandoSe analisa um comando if/elseif/else
func (p *Parser) analisarComandoSe() (Comando, error) {
	tokenSe := p.proximoToken() // consome "if" ou "elseif"

	if err := p.verificarProximoToken(lexer.LPAREN); err != nil {
		return nil, err
	}
	condicao, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
	if err != nil {
		return nil, err
	}
	if err := p.verificarProximoToken(lexer.RPAREN); err != nil {
		return nil, err
	}

	if err := p.verificarProximoToken(lexer.LBRACE); err != nil {
		return nil, err
	}
	blocoSe, err := p.analisarBloco(tokenSe)
	if err != nil {
		return nil, err
	}

	var blocoSenao *Bloco
	switch p.tokenAtual().Type {
	case lexer.ELSEIF:
		// elseif equivale a else { if ... }
		tokenSenao := p.tokenAtual()
		aninhado, err := p.analisarComandoSe()
		if err != nil {
			return nil, err
		}
		blocoSenao = &Bloco{Comandos: []Comando{aninhado}, Token: tokenSenao}

	case lexer.ELSE:
		tokenSenao := p.proximoToken() // consome "else"

		// else if escrito separado também forma cadeia
		if p.tokenAtual().Type == lexer.IF {
			aninhado, err := p.analisarComandoSe()
			if err != nil {
				return nil, err
			}
			blocoSenao = &Bloco{Comandos: []Comando{aninhado}, Token: tokenSenao}
			break
		}

		if err := p.verificarProximoToken(lexer.LBRACE); err != nil {
			return nil, err
		}
		blocoSenao, err = p.analisarBloco(tokenSenao)
		if err != nil {
			return nil, err
		}
	}

	return &ComandoSe{
		Condicao:   condicao,
		BlocoSe:    blocoSe,
		BlocoSenao: blocoSenao,
		Token:      tokenSe,
	}, nil
}

// analisarComandoEnquanto analisa um laço while
func (p *Parser) analisarComandoEnquanto() (Comando, error) {
	tokenEnquanto := p.proximoToken() // consome "while"

	if err := p.verificarProximoToken(lexer.LPAREN); err != nil {
		return nil, err
	}
	condicao, err := p.analisarExpressao(PRECEDENCIA_NENHUMA)
	if err != nil {
		return nil, err
	}
	if err := p.verificarProximoToken(lexer.RPAREN); err != nil {
		return nil, err
	}

	if err := p.verificarProximoToken(lexer.LBRACE); err != nil {
		return nil, err
	}
	corpo, err := p.analisarBloco(tokenEnquanto)
	if err != nil {
		return nil, err
	}

	return &ComandoEnquanto{
		Condicao: condicao,
		Corpo:    corpo,
		Token:    tokenEnquanto,
	}, nil
}

// analisarBloco analisa comandos até encontrar '}' (o '{' já foi consumido)
func (p *Parser) analisarBloco(tokenInicio lexer.Token) (*Bloco, error) {
	var comandos []Comando

	for !p.chegouAoFim() && p.tokenAtual().Type != lexer.RBRACE {
		comando, err := p.analisarComando()
		if err != nil {
			return nil, err
		}
		comandos = append(comandos, comando)
	}

	if err := p.verificarProximoToken(lexer.RBRACE); err != nil {
		return nil, err
	}

	return &Bloco{
		Comandos: comandos,
		Token:    tokenInicio,
	}, nil
}

// proximoToken retorna o próximo token e avança a posição
func (p *Parser) proximoToken() lexer.Token {
	if p.chegouAoFim() {
		return lexer.NovoToken(lexer.EOF, "", lexer.NovaPosicao(0, 0, 0))
	}

	token := p.tokens[p.posicaoAtual]
	p.posicaoAtual++
	return token
}

// verificarProximoToken verifica se o próximo token é do tipo esperado
func (p *Parser) verificarProximoToken(tipoEsperado lexer.TokenType) error {
	token := p.proximoToken()
	if token.Type != tipoEsperado {
		return utils.NovoErro(
			"token inesperado",
			token.Position.Line,
			token.Position.Column,
			fmt.Sprintf("esperado %s, encontrado %s", tipoEsperado, token.Type),
		)
	}
	return nil
}

// tokenAtual retorna o token atual sem avançar
func (p *Parser) tokenAtual() lexer.Token {
	if p.chegouAoFim() {
		return lexer.NovoToken(lexer.EOF, "", lexer.NovaPosicao(0, 0, 0))
	}
	return p.tokens[p.posicaoAtual]
}

// chegouAoFim verifica se chegou ao fim dos tokens
func (p *Parser) chegouAoFim() bool {
	return p.posicaoAtual >= len(p.tokens) ||
		p.tokens[p.posicaoAtual].Type == lexer.EOF
}
