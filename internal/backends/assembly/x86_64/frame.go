package x86_64

import (
	"fmt"

	"github.com/khevencolino/Vega/internal/backends/ir"
	"github.com/khevencolino/Vega/internal/utils"
)

// registradoresPilha é o conjunto fixo de registradores reservados para
// a pilha de avaliação. São todos preservados pelas rotinas de runtime.
var registradoresPilha = []string{"%rbx", "%r12", "%r13", "%r14", "%r15"}

// limiteDerramamento é o teto de vagas de derramamento no quadro.
// Expressões mais profundas que registradores + vagas são rejeitadas
// em tempo de compilação.
const limiteDerramamento = 128

// quadro descreve o layout do quadro de pilha do programa gerado:
// primeiro as regiões de variáveis e arranjos, na ordem da tabela de
// símbolos, depois a área de derramamento.
type quadro struct {
	baseSimbolos      []int64 // deslocamento (positivo) da base de cada símbolo
	tamanhoVariaveis  int64
	vagasDerramamento int
	tamanhoTotal      int64 // múltiplo de 16
}

// montarQuadro atribui deslocamentos a todos os símbolos e dimensiona a
// área de derramamento pela profundidade máxima observada nas instruções
func montarQuadro(programa *ir.Programa) (*quadro, error) {
	q := &quadro{}

	for _, simbolo := range programa.Tabela.Ordem {
		tamanho := int64(8)
		if simbolo.EArranjo() && simbolo.Capacidade > 1 {
			tamanho = int64(simbolo.Capacidade) * 8
		}
		q.tamanhoVariaveis += tamanho
		q.baseSimbolos = append(q.baseSimbolos, q.tamanhoVariaveis)
	}

	profundidade, maxima := 0, 0
	for _, instr := range programa.Instrucoes {
		profundidade += instr.DeltaPilha()
		if profundidade > maxima {
			maxima = profundidade
		}
	}

	vagas := maxima - len(registradoresPilha)
	if vagas < 0 {
		vagas = 0
	}
	if vagas > limiteDerramamento {
		return nil, utils.NovoErroTipado(utils.ErroAlocacaoRegistradores,
			"expressão excede a profundidade máxima de avaliação", 0, 0,
			fmt.Sprintf("profundidade %d, limite %d",
				maxima, len(registradoresPilha)+limiteDerramamento))
	}
	q.vagasDerramamento = vagas

	total := q.tamanhoVariaveis + int64(vagas)*8
	q.tamanhoTotal = (total + 15) &^ 15

	return q, nil
}

// enderecoSimbolo devolve o operando de memória da base de um símbolo
func (q *quadro) enderecoSimbolo(slot int64) string {
	return fmt.Sprintf("-%d(%%rbp)", q.baseSimbolos[slot])
}

// enderecoDerramamento devolve o operando de memória de uma vaga de
// derramamento (vaga 0 é a primeira após as variáveis)
func (q *quadro) enderecoDerramamento(vaga int) string {
	return fmt.Sprintf("-%d(%%rbp)", q.tamanhoVariaveis+int64(vaga+1)*8)
}
