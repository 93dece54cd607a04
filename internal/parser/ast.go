package parser

import (
	"fmt"
	"strings"

	"github.com/khevencolino/Vega/internal/lexer"
)

// Tipo representa a classe de valor inferida para uma expressão
type Tipo int

const (
	TipoIndefinido Tipo = iota
	TipoInteiro
	TipoTexto
	TipoBooleano
	TipoArranjo
)

// String retorna uma representação em string do tipo
func (t Tipo) String() string {
	switch t {
	case TipoInteiro:
		return "inteiro"
	case TipoTexto:
		return "texto"
	case TipoBooleano:
		return "booleano"
	case TipoArranjo:
		return "arranjo"
	default:
		return "indefinido"
	}
}

// TipoOperador representa os tipos de operadores binários
type TipoOperador int

const (
	ADICAO TipoOperador = iota
	SUBTRACAO
	MULTIPLICACAO
	DIVISAO
	CONCATENACAO
	IGUALDADE
	DIFERENCA
	MENOR_QUE
	MAIOR_QUE
	MENOR_IGUAL
	MAIOR_IGUAL
)

// String retorna uma representação em string do operador
func (t TipoOperador) String() string {
	switch t {
	case ADICAO:
		return "+"
	case SUBTRACAO:
		return "-"
	case MULTIPLICACAO:
		return "*"
	case DIVISAO:
		return "/"
	case CONCATENACAO:
		return "."
	case IGUALDADE:
		return "=="
	case DIFERENCA:
		return "!="
	case MENOR_QUE:
		return "<"
	case MAIOR_QUE:
		return ">"
	case MENOR_IGUAL:
		return "<="
	case MAIOR_IGUAL:
		return ">="
	default:
		return "?"
	}
}

// EAritmetico verifica se o operador exige operandos inteiros
func (t TipoOperador) EAritmetico() bool {
	return t == ADICAO || t == SUBTRACAO || t == MULTIPLICACAO || t == DIVISAO
}

// EComparacao verifica se o operador produz um booleano
func (t TipoOperador) EComparacao() bool {
	switch t {
	case IGUALDADE, DIFERENCA, MENOR_QUE, MAIOR_QUE, MENOR_IGUAL, MAIOR_IGUAL:
		return true
	}
	return false
}

// EOrdenacao verifica se o operador é uma comparação de ordem
func (t TipoOperador) EOrdenacao() bool {
	return t == MENOR_QUE || t == MAIOR_QUE || t == MENOR_IGUAL || t == MAIOR_IGUAL
}

// Expressao representa a interface base para expressões da AST
type Expressao interface {
	String() string
	TipoValor() Tipo
	ObterToken() lexer.Token
	expressao()
}

// Comando representa a interface base para comandos (statements) da AST
type Comando interface {
	String() string
	ObterToken() lexer.Token
	comando()
}

// Constante representa um literal inteiro na árvore
type Constante struct {
	Valor int64
	Token lexer.Token
}

func (c *Constante) expressao()              {}
func (c *Constante) TipoValor() Tipo         { return TipoInteiro }
func (c *Constante) ObterToken() lexer.Token { return c.Token }
func (c *Constante) String() string          { return fmt.Sprintf("%d", c.Valor) }

// Texto representa um literal de texto na árvore
type Texto struct {
	Valor string
	Token lexer.Token
}

func (t *Texto) expressao()              {}
func (t *Texto) TipoValor() Tipo         { return TipoTexto }
func (t *Texto) ObterToken() lexer.Token { return t.Token }
func (t *Texto) String() string          { return fmt.Sprintf("%q", t.Valor) }

// Booleano representa um literal booleano na árvore
type Booleano struct {
	Valor bool
	Token lexer.Token
}

func (b *Booleano) expressao()              {}
func (b *Booleano) TipoValor() Tipo         { return TipoBooleano }
func (b *Booleano) ObterToken() lexer.Token { return b.Token }
func (b *Booleano) String() string {
	if b.Valor {
		return "true"
	}
	return "false"
}

// Variavel representa a leitura de uma variável
type Variavel struct {
	Nome  string
	Tipo  Tipo // preenchido pelo verificador de tipos
	Token lexer.Token
}

func (v *Variavel) expressao()              {}
func (v *Variavel) TipoValor() Tipo         { return v.Tipo }
func (v *Variavel) ObterToken() lexer.Token { return v.Token }
func (v *Variavel) String() string          { return "$" + v.Nome }

// OperacaoBinaria representa uma operação binária na árvore
type OperacaoBinaria struct {
	OperandoEsquerdo Expressao
	Operador         TipoOperador
	OperandoDireito  Expressao
	Tipo             Tipo // preenchido pelo verificador de tipos
	Token            lexer.Token
}

func (o *OperacaoBinaria) expressao()              {}
func (o *OperacaoBinaria) TipoValor() Tipo         { return o.Tipo }
func (o *OperacaoBinaria) ObterToken() lexer.Token { return o.Token }
func (o *OperacaoBinaria) String() string {
	return fmt.Sprintf("(%s %s %s)",
		o.OperandoEsquerdo.String(),
		o.Operador.String(),
		o.OperandoDireito.String())
}

// Indexacao representa a leitura de um elemento de arranjo ($a[i])
type Indexacao struct {
	Arranjo Expressao
	Indice  Expressao
	Tipo    Tipo // tipo do elemento, preenchido pelo verificador
	Token   lexer.Token
}

func (i *Indexacao) expressao()              {}
func (i *Indexacao) TipoValor() Tipo         { return i.Tipo }
func (i *Indexacao) ObterToken() lexer.Token { return i.Token }
func (i *Indexacao) String() string {
	return fmt.Sprintf("%s[%s]", i.Arranjo.String(), i.Indice.String())
}

// ElementoArranjo representa um elemento de literal de arranjo,
// com chave opcional (forma chave => valor)
type ElementoArranjo struct {
	Chave Expressao // nil para elementos sequenciais
	Valor Expressao
}

// ArranjoLiteral representa um literal de arranjo (array(...) ou [...])
type ArranjoLiteral struct {
	Elementos []ElementoArranjo
	Token     lexer.Token
}

func (a *ArranjoLiteral) expressao()              {}
func (a *ArranjoLiteral) TipoValor() Tipo         { return TipoArranjo }
func (a *ArranjoLiteral) ObterToken() lexer.Token { return a.Token }
func (a *ArranjoLiteral) String() string {
	var partes []string
	for _, elemento := range a.Elementos {
		if elemento.Chave != nil {
			partes = append(partes, fmt.Sprintf("%s => %s", elemento.Chave.String(), elemento.Valor.String()))
		} else {
			partes = append(partes, elemento.Valor.String())
		}
	}
	return "[" + strings.Join(partes, ", ") + "]"
}

// Echo representa o comando echo com uma ou mais expressões
type Echo struct {
	Valores []Expressao
	Token   lexer.Token
}

func (e *Echo) comando()                {}
func (e *Echo) ObterToken() lexer.Token { return e.Token }
func (e *Echo) String() string {
	var partes []string
	for _, valor := range e.Valores {
		partes = append(partes, valor.String())
	}
	return "echo " + strings.Join(partes, ", ")
}

// Atribuicao representa uma atribuição a variável ($x = expr)
type Atribuicao struct {
	Nome  string
	Valor Expressao
	Token lexer.Token
}

func (a *Atribuicao) comando()                {}
func (a *Atribuicao) ObterToken() lexer.Token { return a.Token }
func (a *Atribuicao) String() string {
	return fmt.Sprintf("$%s = %s", a.Nome, a.Valor.String())
}

// AtribuicaoArranjo representa uma atribuição a elemento de arranjo ($a[i] = expr)
type AtribuicaoArranjo struct {
	Nome   string
	Indice Expressao
	Valor  Expressao
	Token  lexer.Token
}

func (a *AtribuicaoArranjo) comando()                {}
func (a *AtribuicaoArranjo) ObterToken() lexer.Token { return a.Token }
func (a *AtribuicaoArranjo) String() string {
	return fmt.Sprintf("$%s[%s] = %s", a.Nome, a.Indice.String(), a.Valor.String())
}

// Bloco representa uma sequência de comandos entre chaves
type Bloco struct {
	Comandos []Comando
	Token    lexer.Token
}

func (b *Bloco) comando()                {}
func (b *Bloco) ObterToken() lexer.Token { return b.Token }
func (b *Bloco) String() string {
	var partes []string
	for _, comando := range b.Comandos {
		partes = append(partes, comando.String())
	}
	return "{ " + strings.Join(partes, "; ") + " }"
}

// ComandoSe representa um comando if/elseif/else.
// Cadeias elseif são representadas como um ComandoSe aninhado no BlocoSenao.
type ComandoSe struct {
	Condicao   Expressao
	BlocoSe    *Bloco
	BlocoSenao *Bloco // nil quando não há else
	Token      lexer.Token
}

func (c *ComandoSe) comando()                {}
func (c *ComandoSe) ObterToken() lexer.Token { return c.Token }
func (c *ComandoSe) String() string {
	texto := fmt.Sprintf("if %s %s", c.Condicao.String(), c.BlocoSe.String())
	if c.BlocoSenao != nil {
		texto += " else " + c.BlocoSenao.String()
	}
	return texto
}

// ComandoEnquanto representa um laço while
type ComandoEnquanto struct {
	Condicao Expressao
	Corpo    *Bloco
	Token    lexer.Token
}

func (c *ComandoEnquanto) comando()                {}
func (c *ComandoEnquanto) ObterToken() lexer.Token { return c.Token }
func (c *ComandoEnquanto) String() string {
	return fmt.Sprintf("while %s %s", c.Condicao.String(), c.Corpo.String())
}

// ComandoExpressao representa uma expressão usada como comando
type ComandoExpressao struct {
	Expressao Expressao
	Token     lexer.Token
}

func (c *ComandoExpressao) comando()                {}
func (c *ComandoExpressao) ObterToken() lexer.Token { return c.Token }
func (c *ComandoExpressao) String() string          { return c.Expressao.String() }
