package lexer

import "fmt"

// TokenType representa o tipo de token
type TokenType int

const (
	// Tipos de tokens
	NUMBER        TokenType = iota // Números inteiros
	STRING                         // Literais de texto ("..." ou '...')
	VARIABLE                       // Variáveis ($nome)
	IDENTIFIER                     // Identificadores sem cifrão (palavras-chave não reconhecidas)
	ECHO                           // Palavra-chave echo
	IF                             // Palavra-chave if
	ELSEIF                         // Palavra-chave elseif
	ELSE                           // Palavra-chave else
	WHILE                          // Palavra-chave while
	ARRAY                          // Palavra-chave array
	TRUE                           // Literal true
	FALSE                          // Literal false
	PLUS                           // Operador de adição (+)
	MINUS                          // Operador de subtração (-)
	MULTIPLY                       // Operador de multiplicação (*)
	DIVIDE                         // Operador de divisão (/)
	DOT                            // Operador de concatenação (.)
	ASSIGN                         // Atribuição (=)
	EQUAL                          // Igualdade (==)
	NOT_EQUAL                      // Diferença (!=)
	LESS                           // Menor que (<)
	GREATER                        // Maior que (>)
	LESS_EQUAL                     // Menor ou igual (<=)
	GREATER_EQUAL                  // Maior ou igual (>=)
	LPAREN                         // Parêntese esquerdo (
	RPAREN                         // Parêntese direito )
	LBRACE                         // Chave esquerda {
	RBRACE                         // Chave direita }
	LBRACKET                       // Colchete esquerdo [
	RBRACKET                       // Colchete direito ]
	SEMICOLON                      // Ponto e vírgula ;
	COMMA                          // Vírgula ,
	DOUBLE_ARROW                   // Seta dupla => (chaves de arranjo)
	COMMENT                        // Comentários
	WHITESPACE                     // Espaços em branco
	EOF                            // Fim do arquivo
	INVALID                        // Token inválido
)

// String retorna uma representação em string do tipo de token
func (t TokenType) String() string {
	switch t {
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case VARIABLE:
		return "VARIABLE"
	case IDENTIFIER:
		return "IDENTIFIER"
	case ECHO:
		return "ECHO"
	case IF:
		return "IF"
	case ELSEIF:
		return "ELSEIF"
	case ELSE:
		return "ELSE"
	case WHILE:
		return "WHILE"
	case ARRAY:
		return "ARRAY"
	case TRUE:
		return "TRUE"
	case FALSE:
		return "FALSE"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case MULTIPLY:
		return "MULTIPLY"
	case DIVIDE:
		return "DIVIDE"
	case DOT:
		return "DOT"
	case ASSIGN:
		return "ASSIGN"
	case EQUAL:
		return "EQUAL"
	case NOT_EQUAL:
		return "NOT_EQUAL"
	case LESS:
		return "LESS"
	case GREATER:
		return "GREATER"
	case LESS_EQUAL:
		return "LESS_EQUAL"
	case GREATER_EQUAL:
		return "GREATER_EQUAL"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case SEMICOLON:
		return "SEMICOLON"
	case COMMA:
		return "COMMA"
	case DOUBLE_ARROW:
		return "DOUBLE_ARROW"
	case COMMENT:
		return "COMMENT"
	case WHITESPACE:
		return "WHITESPACE"
	case EOF:
		return "EOF"
	case INVALID:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Token representa um token encontrado no código fonte
type Token struct {
	Type     TokenType // Tipo do token
	Value    string    // Valor do token (texto já decodificado para STRING, nome sem $ para VARIABLE)
	Position Position  // Posição no código fonte
}

// String retorna uma representação em string do token
func (t Token) String() string {
	return fmt.Sprintf("%s('%s') em %s", t.Type, t.Value, t.Position)
}

// NovoToken cria um novo token
func NovoToken(tipoToken TokenType, valor string, posicao Position) Token {
	return Token{
		Type:     tipoToken,
		Value:    valor,
		Position: posicao,
	}
}

// EOperador verifica se o token é um operador binário
func (t Token) EOperador() bool {
	switch t.Type {
	case PLUS, MINUS, MULTIPLY, DIVIDE, DOT,
		EQUAL, NOT_EQUAL, LESS, GREATER, LESS_EQUAL, GREATER_EQUAL:
		return true
	}
	return false
}

// ELiteral verifica se o token é um literal
func (t Token) ELiteral() bool {
	return t.Type == NUMBER || t.Type == STRING || t.Type == TRUE || t.Type == FALSE
}
