package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

// Lexer representa o analisador léxico
type Lexer struct {
	entrada string                       // Código fonte de entrada
	posicao int                          // Posição atual no código
	linha   int                          // Linha atual
	coluna  int                          // Coluna atual
	padroes map[TokenType]*regexp.Regexp // Padrões regex para cada tipo de token
}

// palavrasChave mapeia identificadores reservados para seus tokens
var palavrasChave = map[string]TokenType{
	"echo":   ECHO,
	"if":     IF,
	"elseif": ELSEIF,
	"else":   ELSE,
	"while":  WHILE,
	"array":  ARRAY,
	"true":   TRUE,
	"false":  FALSE,
}

// NovoLexer cria um novo analisador léxico
func NovoLexer(entrada string) *Lexer {
	lexer := &Lexer{
		entrada: entrada,
		linha:   1,
		coluna:  1,
	}
	lexer.inicializarPadroes()
	return lexer
}

// inicializarPadroes inicializa os padrões regex para cada tipo de token
func (l *Lexer) inicializarPadroes() {
	l.padroes = map[TokenType]*regexp.Regexp{
		NUMBER:        regexp.MustCompile(`^\d+`),                               // Números: 123, 456
		STRING:        regexp.MustCompile(`^("(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*')`), // Textos: "abc", 'abc'
		VARIABLE:      regexp.MustCompile(`^\$[a-zA-Z_][a-zA-Z0-9_]*`),          // Variáveis: $nome
		IDENTIFIER:    regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`),            // Palavras-chave e identificadores
		PLUS:          regexp.MustCompile(`^\+`),                                // Adição: +
		MINUS:         regexp.MustCompile(`^-`),                                 // Subtração: -
		MULTIPLY:      regexp.MustCompile(`^\*`),                                // Multiplicação: *
		DIVIDE:        regexp.MustCompile(`^/`),                                 // Divisão: /
		DOT:           regexp.MustCompile(`^\.`),                                // Concatenação: .
		EQUAL:         regexp.MustCompile(`^==`),                                // Igualdade: ==
		DOUBLE_ARROW:  regexp.MustCompile(`^=>`),                                // Chave de arranjo: =>
		ASSIGN:        regexp.MustCompile(`^=`),                                 // Atribuição: =
		NOT_EQUAL:     regexp.MustCompile(`^!=`),                                // Diferença: !=
		LESS_EQUAL:    regexp.MustCompile(`^<=`),                                // Menor ou igual: <=
		GREATER_EQUAL: regexp.MustCompile(`^>=`),                                // Maior ou igual: >=
		LESS:          regexp.MustCompile(`^<`),                                 // Menor que: <
		GREATER:       regexp.MustCompile(`^>`),                                 // Maior que: >
		LPAREN:        regexp.MustCompile(`^\(`),                                // Parêntese esquerdo: (
		RPAREN:        regexp.MustCompile(`^\)`),                                // Parêntese direito: )
		LBRACE:        regexp.MustCompile(`^\{`),                                // Chave esquerda: {
		RBRACE:        regexp.MustCompile(`^\}`),                                // Chave direita: }
		LBRACKET:      regexp.MustCompile(`^\[`),                                // Colchete esquerdo: [
		RBRACKET:      regexp.MustCompile(`^\]`),                                // Colchete direito: ]
		SEMICOLON:     regexp.MustCompile(`^;`),                                 // Ponto e vírgula: ;
		COMMA:         regexp.MustCompile(`^,`),                                 // Vírgula: ,
		WHITESPACE:    regexp.MustCompile(`^\s+`),                               // Espaços em branco
		COMMENT:       regexp.MustCompile(`^(//[^\n]*|#[^\n]*|/\*[\s\S]*?\*/)`), // Comentários //, # e /* */
	}
}

// Tokenizar converte a entrada em uma lista de tokens
func (l *Lexer) Tokenizar() ([]Token, error) {
	var tokens []Token

	l.pularAberturaPHP()

	for {
		token, err := l.proximoToken()
		if err != nil {
			return nil, err
		}

		// Pula espaços em branco mas adiciona outros tokens
		if token.Type != WHITESPACE && token.Type != COMMENT {
			tokens = append(tokens, token)
		}

		if token.Type == EOF {
			break
		}
	}

	return tokens, nil
}

// pularAberturaPHP avança além do marcador <?php, se presente
func (l *Lexer) pularAberturaPHP() {
	indice := strings.Index(l.entrada, "<?php")
	if indice < 0 {
		return
	}
	l.avancar(indice + len("<?php"))
}

// proximoToken encontra o próximo token
func (l *Lexer) proximoToken() (Token, error) {
	if !l.temMais() {
		return NovoToken(EOF, "", l.obterPosicaoAtual()), nil
	}

	posicaoAtual := l.obterPosicaoAtual()
	restante := l.entrada[l.posicao:]

	// O marcador de fechamento ?> encerra o programa
	if strings.HasPrefix(restante, "?>") {
		return NovoToken(EOF, "", posicaoAtual), nil
	}

	// Tenta fazer match com cada padrão (ordem importa para == vs => vs =)
	tiposToken := []TokenType{
		COMMENT, WHITESPACE, STRING, VARIABLE, IDENTIFIER, NUMBER,
		EQUAL, DOUBLE_ARROW, ASSIGN, NOT_EQUAL, LESS_EQUAL, GREATER_EQUAL,
		LESS, GREATER, PLUS, MINUS, MULTIPLY, DIVIDE, DOT,
		LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET, SEMICOLON, COMMA,
	}

	for _, tipoToken := range tiposToken {
		if match := l.padroes[tipoToken].FindString(restante); match != "" {
			valor := match
			tipo := tipoToken

			switch tipoToken {
			case STRING:
				decodificado, err := decodificarTexto(match)
				if err != nil {
					return Token{}, fmt.Errorf("%v em %s", err, posicaoAtual)
				}
				valor = decodificado
			case VARIABLE:
				valor = match[1:] // remove o cifrão
			case IDENTIFIER:
				if chave, ok := palavrasChave[match]; ok {
					tipo = chave
				}
			}

			token := NovoToken(tipo, valor, posicaoAtual)
			l.avancar(len(match))
			return token, nil
		}
	}

	// Caractere inválido
	caractereInvalido := string(l.espiar())
	l.avancar(1)
	return NovoToken(INVALID, caractereInvalido, posicaoAtual),
		fmt.Errorf("caractere inválido '%s' em %s", caractereInvalido, posicaoAtual)
}

// decodificarTexto converte um literal de texto bruto no seu conteúdo
func decodificarTexto(bruto string) (string, error) {
	if len(bruto) < 2 {
		return "", fmt.Errorf("literal de texto malformado")
	}
	aspas := bruto[0]
	conteudo := bruto[1 : len(bruto)-1]

	var builder strings.Builder
	for i := 0; i < len(conteudo); i++ {
		c := conteudo[i]
		if c != '\\' || i+1 >= len(conteudo) {
			builder.WriteByte(c)
			continue
		}

		i++
		seguinte := conteudo[i]
		if aspas == '\'' {
			// Aspas simples só escapam \' e \\
			switch seguinte {
			case '\'', '\\':
				builder.WriteByte(seguinte)
			default:
				builder.WriteByte('\\')
				builder.WriteByte(seguinte)
			}
			continue
		}

		switch seguinte {
		case 'n':
			builder.WriteByte('\n')
		case 't':
			builder.WriteByte('\t')
		case 'r':
			builder.WriteByte('\r')
		case '0':
			builder.WriteByte(0)
		case '"', '\\', '$':
			builder.WriteByte(seguinte)
		default:
			builder.WriteByte('\\')
			builder.WriteByte(seguinte)
		}
	}
	return builder.String(), nil
}

// obterPosicaoAtual retorna a posição atual no código fonte
func (l *Lexer) obterPosicaoAtual() Position {
	return NovaPosicao(l.linha, l.coluna, l.posicao)
}

// avancar move a posição do lexer para frente
func (l *Lexer) avancar(comprimento int) {
	for i := 0; i < comprimento; i++ {
		if l.posicao < len(l.entrada) {
			if l.entrada[l.posicao] == '\n' {
				l.linha++
				l.coluna = 1
			} else {
				l.coluna++
			}
			l.posicao++
		}
	}
}

// espiar retorna o caractere atual sem avançar
func (l *Lexer) espiar() byte {
	if l.posicao >= len(l.entrada) {
		return 0
	}
	return l.entrada[l.posicao]
}

// temMais verifica se há mais caracteres para processar
func (l *Lexer) temMais() bool {
	return l.posicao < len(l.entrada)
}

// ImprimirTokens imprime todos os tokens de forma formatada
func ImprimirTokens(tokens []Token) {
	fmt.Printf("%-15s %-20s %-20s\n", "TIPO", "VALOR", "POSIÇÃO")
	fmt.Println(strings.Repeat("-", 60))

	for _, token := range tokens {
		if token.Type != EOF {
			fmt.Printf("%-15s %-20s %-20s\n", token.Type, token.Value, token.Position)
		}
	}
}
