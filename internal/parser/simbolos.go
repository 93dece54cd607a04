package parser

// Simbolo representa uma variável na tabela de símbolos.
// O slot é a posição fixa de armazenamento atribuída na ordem em que
// a variável aparece no programa; para arranjos, o slot é a base de uma
// região contígua de Capacidade células.
type Simbolo struct {
	Nome         string
	Tipo         Tipo
	Slot         int
	Capacidade   int            // número de células (0 para escalares)
	TipoElemento Tipo           // tipo dos elementos (somente arranjos)
	Chaves       map[string]int // chaves textuais resolvidas para índices (somente arranjos)
}

// EArranjo verifica se o símbolo é um arranjo
func (s *Simbolo) EArranjo() bool {
	return s.Tipo == TipoArranjo
}

// TabelaSimbolos mapeia nomes de variáveis para símbolos, preservando a
// ordem de primeira aparição. É construída pelo verificador de tipos e
// consumida sem alteração pelas etapas seguintes.
type TabelaSimbolos struct {
	porNome map[string]*Simbolo
	Ordem   []*Simbolo // símbolos na ordem de primeira aparição
}

// NovaTabelaSimbolos cria uma tabela de símbolos vazia
func NovaTabelaSimbolos() *TabelaSimbolos {
	return &TabelaSimbolos{
		porNome: make(map[string]*Simbolo),
	}
}

// Buscar retorna o símbolo de uma variável, se declarado
func (t *TabelaSimbolos) Buscar(nome string) (*Simbolo, bool) {
	simbolo, existe := t.porNome[nome]
	return simbolo, existe
}

// Declarar registra uma nova variável e atribui o próximo slot livre
func (t *TabelaSimbolos) Declarar(nome string, tipo Tipo) *Simbolo {
	if simbolo, existe := t.porNome[nome]; existe {
		return simbolo
	}
	simbolo := &Simbolo{
		Nome: nome,
		Tipo: tipo,
		Slot: len(t.Ordem),
	}
	t.porNome[nome] = simbolo
	t.Ordem = append(t.Ordem, simbolo)
	return simbolo
}

// Quantidade retorna o número de símbolos declarados
func (t *TabelaSimbolos) Quantidade() int {
	return len(t.Ordem)
}
