package utils

import (
	"fmt"
	"strings"
)

// TipoErro classifica os erros do compilador
type TipoErro int

const (
	ErroLexico                 TipoErro = iota // caractere ou literal inválido
	ErroSintaxe                                // estrutura sintática inválida
	ErroVariavelIndefinida                     // variável lida antes de qualquer atribuição
	ErroTipoIncompativel                       // operandos incompatíveis com o operador
	ErroConstrucaoNaoSuportada                 // construção fora do subconjunto aceito
	ErroIndiceForaDaCapacidade                 // índice constante além da capacidade declarada
	ErroAlocacaoRegistradores                  // profundidade de expressão excede a área de derrame
	ErroLeituraEntrada                         // falha ao ler o arquivo de entrada
	ErroEscritaSaida                           // falha ao escrever o arquivo de saída
)

// String retorna uma descrição em string do tipo de erro
func (t TipoErro) String() string {
	switch t {
	case ErroLexico:
		return "erro léxico"
	case ErroSintaxe:
		return "erro de sintaxe"
	case ErroVariavelIndefinida:
		return "variável indefinida"
	case ErroTipoIncompativel:
		return "tipos incompatíveis"
	case ErroConstrucaoNaoSuportada:
		return "construção não suportada"
	case ErroIndiceForaDaCapacidade:
		return "índice fora da capacidade declarada"
	case ErroAlocacaoRegistradores:
		return "falha na alocação de registradores"
	case ErroLeituraEntrada:
		return "falha ao ler entrada"
	case ErroEscritaSaida:
		return "falha ao escrever saída"
	default:
		return "erro desconhecido"
	}
}

// CompilerError representa um erro do compilador com informações de posição
type CompilerError struct {
	Tipo     TipoErro // Classe do erro
	Mensagem string   // Mensagem de erro
	Linha    int      // Linha onde ocorreu o erro
	Coluna   int      // Coluna onde ocorreu o erro
	Detalhes string   // Detalhes adicionais do erro
}

// Error implementa a interface error
func (e *CompilerError) Error() string {
	var builder strings.Builder
	builder.WriteString(e.Tipo.String())
	builder.WriteString(": ")
	builder.WriteString(e.Mensagem)
	if e.Linha > 0 && e.Coluna > 0 {
		builder.WriteString(fmt.Sprintf(" em linha %d, coluna %d", e.Linha, e.Coluna))
	}
	if e.Detalhes != "" {
		builder.WriteString(" (")
		builder.WriteString(e.Detalhes)
		builder.WriteString(")")
	}
	return builder.String()
}

// NovoErro cria um novo erro de sintaxe do compilador
func NovoErro(mensagem string, linha, coluna int, detalhes string) *CompilerError {
	return NovoErroTipado(ErroSintaxe, mensagem, linha, coluna, detalhes)
}

// NovoErroTipado cria um novo erro do compilador com a classe informada
func NovoErroTipado(tipo TipoErro, mensagem string, linha, coluna int, detalhes string) *CompilerError {
	return &CompilerError{
		Tipo:     tipo,
		Mensagem: mensagem,
		Linha:    linha,
		Coluna:   coluna,
		Detalhes: detalhes,
	}
}
