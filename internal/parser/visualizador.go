package parser

import (
	"fmt"
	"strconv"

	"github.com/m1gwings/treedrawer/tree"
)

// VisualizadorArvore cria representações visuais da AST
type VisualizadorArvore struct{}

// NovoVisualizador cria um novo visualizador
func NovoVisualizador() *VisualizadorArvore {
	return &VisualizadorArvore{}
}

// ImprimirPrograma imprime a árvore de cada comando do programa
func (v *VisualizadorArvore) ImprimirPrograma(comandos []Comando) {
	fmt.Println("=== Árvore Sintática ===")
	for _, comando := range comandos {
		arvore := v.arvoreComando(comando)
		fmt.Println(arvore)
	}
	fmt.Println()
}

// arvoreComando cria a árvore de um comando
func (v *VisualizadorArvore) arvoreComando(comando Comando) *tree.Tree {
	switch cmd := comando.(type) {
	case *Echo:
		arvore := tree.NewTree(tree.NodeString("echo"))
		for _, valor := range cmd.Valores {
			v.adicionarSubarvore(arvore, v.arvoreExpressao(valor))
		}
		return arvore

	case *Atribuicao:
		arvore := tree.NewTree(tree.NodeString("$" + cmd.Nome + " ="))
		v.adicionarSubarvore(arvore, v.arvoreExpressao(cmd.Valor))
		return arvore

	case *AtribuicaoArranjo:
		arvore := tree.NewTree(tree.NodeString("$" + cmd.Nome + "[] ="))
		v.adicionarSubarvore(arvore, v.arvoreExpressao(cmd.Indice))
		v.adicionarSubarvore(arvore, v.arvoreExpressao(cmd.Valor))
		return arvore

	case *ComandoSe:
		arvore := tree.NewTree(tree.NodeString("if"))
		v.adicionarSubarvore(arvore, v.arvoreExpressao(cmd.Condicao))
		v.adicionarSubarvore(arvore, v.arvoreBloco(cmd.BlocoSe, "então"))
		if cmd.BlocoSenao != nil {
			v.adicionarSubarvore(arvore, v.arvoreBloco(cmd.BlocoSenao, "senão"))
		}
		return arvore

	case *ComandoEnquanto:
		arvore := tree.NewTree(tree.NodeString("while"))
		v.adicionarSubarvore(arvore, v.arvoreExpressao(cmd.Condicao))
		v.adicionarSubarvore(arvore, v.arvoreBloco(cmd.Corpo, "corpo"))
		return arvore

	case *Bloco:
		return v.arvoreBloco(cmd, "bloco")

	case *ComandoExpressao:
		return v.arvoreExpressao(cmd.Expressao)

	default:
		return tree.NewTree(tree.NodeString("?"))
	}
}

// arvoreBloco cria a árvore de um bloco rotulado
func (v *VisualizadorArvore) arvoreBloco(bloco *Bloco, rotulo string) *tree.Tree {
	arvore := tree.NewTree(tree.NodeString(rotulo))
	for _, comando := range bloco.Comandos {
		v.adicionarSubarvore(arvore, v.arvoreComando(comando))
	}
	return arvore
}

// arvoreExpressao cria a árvore de uma expressão de forma recursiva
func (v *VisualizadorArvore) arvoreExpressao(expressao Expressao) *tree.Tree {
	switch expr := expressao.(type) {
	case *Constante:
		// Folha da árvore: apenas o número
		return tree.NewTree(tree.NodeString(strconv.FormatInt(expr.Valor, 10)))

	case *Texto:
		return tree.NewTree(tree.NodeString(strconv.Quote(expr.Valor)))

	case *Booleano:
		if expr.Valor {
			return tree.NewTree(tree.NodeString("true"))
		}
		return tree.NewTree(tree.NodeString("false"))

	case *Variavel:
		return tree.NewTree(tree.NodeString("$" + expr.Nome))

	case *OperacaoBinaria:
		// Nó interno: operador com dois filhos
		arvore := tree.NewTree(tree.NodeString(expr.Operador.String()))
		v.adicionarSubarvore(arvore, v.arvoreExpressao(expr.OperandoEsquerdo))
		v.adicionarSubarvore(arvore, v.arvoreExpressao(expr.OperandoDireito))
		return arvore

	case *Indexacao:
		arvore := tree.NewTree(tree.NodeString("[]"))
		v.adicionarSubarvore(arvore, v.arvoreExpressao(expr.Arranjo))
		v.adicionarSubarvore(arvore, v.arvoreExpressao(expr.Indice))
		return arvore

	case *ArranjoLiteral:
		arvore := tree.NewTree(tree.NodeString("array"))
		for _, elemento := range expr.Elementos {
			if elemento.Chave != nil {
				par := tree.NewTree(tree.NodeString("=>"))
				v.adicionarSubarvore(par, v.arvoreExpressao(elemento.Chave))
				v.adicionarSubarvore(par, v.arvoreExpressao(elemento.Valor))
				v.adicionarSubarvore(arvore, par)
				continue
			}
			v.adicionarSubarvore(arvore, v.arvoreExpressao(elemento.Valor))
		}
		return arvore

	default:
		return tree.NewTree(tree.NodeString("?"))
	}
}

// adicionarSubarvore adiciona uma subárvore como filho
func (v *VisualizadorArvore) adicionarSubarvore(pai *tree.Tree, filho *tree.Tree) {
	// Adiciona o valor do nó raiz do filho
	novoFilho := pai.AddChild(filho.Val())

	// Se o filho tem seus próprios filhos, adiciona recursivamente
	v.copiarFilhos(filho, novoFilho)
}

// copiarFilhos copia todos os filhos de uma árvore para outra
func (v *VisualizadorArvore) copiarFilhos(origem *tree.Tree, destino *tree.Tree) {
	for i := 0; ; i++ {
		filho, err := origem.Child(i)
		if err != nil {
			break // Não há mais filhos
		}

		novoFilho := destino.AddChild(filho.Val())
		v.copiarFilhos(filho, novoFilho)
	}
}
