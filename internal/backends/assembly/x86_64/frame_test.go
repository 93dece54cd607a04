package x86_64

import (
	"errors"
	"testing"

	"github.com/khevencolino/Vega/internal/backends/ir"
	"github.com/khevencolino/Vega/internal/parser"
	"github.com/khevencolino/Vega/internal/utils"
	"github.com/nalgeon/be"
)

func TestQuadroDeslocamentosEscalares(t *testing.T) {
	tabela := parser.NovaTabelaSimbolos()
	tabela.Declarar("a", parser.TipoInteiro)
	tabela.Declarar("b", parser.TipoInteiro)

	programa := &ir.Programa{Tabela: tabela}
	q, err := montarQuadro(programa)
	be.Err(t, err, nil)

	be.Equal(t, q.enderecoSimbolo(0), "-8(%rbp)")
	be.Equal(t, q.enderecoSimbolo(1), "-16(%rbp)")
	be.Equal(t, q.tamanhoTotal, int64(16))
}

func TestQuadroRegiaoDeArranjo(t *testing.T) {
	tabela := parser.NovaTabelaSimbolos()
	tabela.Declarar("x", parser.TipoInteiro)
	arranjo := tabela.Declarar("a", parser.TipoArranjo)
	arranjo.Capacidade = 3
	tabela.Declarar("y", parser.TipoInteiro)

	programa := &ir.Programa{Tabela: tabela}
	q, err := montarQuadro(programa)
	be.Err(t, err, nil)

	// x em -8; o arranjo ocupa [-32, -8); y logo abaixo
	be.Equal(t, q.enderecoSimbolo(0), "-8(%rbp)")
	be.Equal(t, q.enderecoSimbolo(1), "-32(%rbp)")
	be.Equal(t, q.enderecoSimbolo(2), "-40(%rbp)")

	// 40 bytes arredondados para múltiplo de 16
	be.Equal(t, q.tamanhoTotal, int64(48))
}

func empilhamentos(quantidade int) []ir.Instrucao {
	instrucoes := make([]ir.Instrucao, quantidade)
	for i := range instrucoes {
		instrucoes[i] = ir.Instrucao{OpCode: ir.OP_CONST_INT, Operando: int64(i)}
	}
	return instrucoes
}

func TestQuadroSemDerramamento(t *testing.T) {
	programa := &ir.Programa{
		Instrucoes: empilhamentos(len(registradoresPilha)),
		Tabela:     parser.NovaTabelaSimbolos(),
	}
	q, err := montarQuadro(programa)
	be.Err(t, err, nil)
	be.Equal(t, q.vagasDerramamento, 0)
}

func TestQuadroComDerramamento(t *testing.T) {
	programa := &ir.Programa{
		Instrucoes: empilhamentos(len(registradoresPilha) + 3),
		Tabela:     parser.NovaTabelaSimbolos(),
	}
	q, err := montarQuadro(programa)
	be.Err(t, err, nil)
	be.Equal(t, q.vagasDerramamento, 3)
	be.Equal(t, q.enderecoDerramamento(0), "-8(%rbp)")
	be.Equal(t, q.enderecoDerramamento(2), "-24(%rbp)")
}

func TestQuadroProfundidadeExcedida(t *testing.T) {
	programa := &ir.Programa{
		Instrucoes: empilhamentos(len(registradoresPilha) + limiteDerramamento + 1),
		Tabela:     parser.NovaTabelaSimbolos(),
	}
	_, err := montarQuadro(programa)
	be.True(t, err != nil)

	var compilerError *utils.CompilerError
	be.True(t, errors.As(err, &compilerError))
	be.Equal(t, compilerError.Tipo, utils.ErroAlocacaoRegistradores)
}

func TestTextoAssembly(t *testing.T) {
	be.Equal(t, textoAssembly(`ola "mundo"`), `ola \"mundo\"`)
	be.Equal(t, textoAssembly("a\nb\tc"), `a\nb\tc`)
	be.Equal(t, textoAssembly(`c:\dir`), `c:\\dir`)
	be.Equal(t, textoAssembly("\x01"), `\001`)
}
