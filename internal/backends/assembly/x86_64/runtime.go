package x86_64

// Rotinas de runtime anexadas ao assembly gerado, sob demanda.
//
// Convenção de chamada: argumentos em %rdi e %rsi, resultado em %rax.
// As rotinas preservam %rbx, %r12-%r15 e %rbp; podem alterar %rax,
// %rcx, %rdx, %rsi, %rdi e %r8-%r11.
//
// Textos em tempo de execução são pares (ponteiro, tamanho) num único
// bloco: um quadword de tamanho seguido pelos bytes. Todo valor ocupa
// uma célula de 8 bytes; textos carregam o ponteiro para esse bloco.

// rotinaRuntime descreve uma rotina emitível: o código em si, rotinas
// das quais depende, e dados/bss que precisa
type rotinaRuntime struct {
	nome         string
	dependencias []string
	dados        string // entradas de .rodata
	bss          string // reservas de .bss
	codigo       string
}

// rotinasRuntime lista as rotinas na ordem fixa de emissão
var rotinasRuntime = []rotinaRuntime{
	{
		// imprime_texto: escreve os bytes do texto em %rdi na saída padrão
		nome: "imprime_texto",
		codigo: `imprime_texto:
    movq (%rdi), %rdx
    leaq 8(%rdi), %rsi
    movq $1, %rax
    movq $1, %rdi
    syscall
    ret
`,
	},
	{
		// imprime_num: converte o inteiro em %rdi para decimal e escreve
		nome:         "imprime_num",
		dependencias: []string{"num_para_texto", "imprime_texto"},
		codigo: `imprime_num:
    call num_para_texto
    movq %rax, %rdi
    jmp imprime_texto
`,
	},
	{
		// imprime_bool: escreve "1" para verdadeiro, nada para falso
		nome:         "imprime_bool",
		dependencias: []string{"bool_para_texto", "imprime_texto"},
		codigo: `imprime_bool:
    call bool_para_texto
    movq %rax, %rdi
    jmp imprime_texto
`,
	},
	{
		// num_para_texto: converte o inteiro em %rdi num texto alocado
		nome:         "num_para_texto",
		dependencias: []string{"aloca"},
		bss:          "    .lcomm buffer_num, 32\n",
		codigo: `num_para_texto:
    movq %rdi, %rax
    leaq buffer_num+32(%rip), %rsi
    xorq %r8, %r8
    xorq %r9, %r9
    testq %rax, %rax
    jns .ntx_converte
    movq $1, %r8
    negq %rax
.ntx_converte:
    movq $10, %rcx
.ntx_laco:
    xorq %rdx, %rdx
    divq %rcx
    addq $48, %rdx
    decq %rsi
    movb %dl, (%rsi)
    incq %r9
    testq %rax, %rax
    jnz .ntx_laco
    testq %r8, %r8
    jz .ntx_aloca
    decq %rsi
    movb $45, (%rsi)
    incq %r9
.ntx_aloca:
    movq %rsi, %r10
    leaq 8(%r9), %rdi
    call aloca
    movq %r9, (%rax)
    movq %rax, %r8
    leaq 8(%rax), %rdi
    movq %r10, %rsi
    movq %r9, %rcx
    rep movsb
    movq %r8, %rax
    ret
`,
	},
	{
		// texto_vazio: texto de tamanho zero, valor inicial de toda
		// variável de texto e resultado de conversões falsas
		nome: "texto_vazio",
		dados: `texto_vazio:
    .quad 0
`,
	},
	{
		// bool_para_texto: devolve o texto "1" ou o texto vazio
		nome:         "bool_para_texto",
		dependencias: []string{"texto_vazio"},
		dados: `dado_verdadeiro:
    .quad 1
    .ascii "1"
`,
		codigo: `bool_para_texto:
    testq %rdi, %rdi
    jz .btx_falso
    leaq dado_verdadeiro(%rip), %rax
    ret
.btx_falso:
    leaq texto_vazio(%rip), %rax
    ret
`,
	},
	{
		// concatena: aloca tamanho(a) + tamanho(b) bytes e copia os dois
		// operandos em sequência; um operando vazio copia zero bytes
		nome:         "concatena",
		dependencias: []string{"aloca"},
		codigo: `concatena:
    movq %rdi, %r8
    movq %rsi, %r9
    movq (%r8), %r10
    addq (%r9), %r10
    leaq 8(%r10), %rdi
    call aloca
    movq %r10, (%rax)
    movq %rax, %r11
    leaq 8(%rax), %rdi
    leaq 8(%r8), %rsi
    movq (%r8), %rcx
    rep movsb
    leaq 8(%r9), %rsi
    movq (%r9), %rcx
    rep movsb
    movq %r11, %rax
    ret
`,
	},
	{
		// textos_iguais: compara tamanho e bytes, devolve 1 ou 0
		nome: "textos_iguais",
		codigo: `textos_iguais:
    movq (%rdi), %rcx
    cmpq (%rsi), %rcx
    jne .tig_diferentes
    leaq 8(%rdi), %rdi
    leaq 8(%rsi), %rsi
    repe cmpsb
    jne .tig_diferentes
    movq $1, %rax
    ret
.tig_diferentes:
    xorq %rax, %rax
    ret
`,
	},
	{
		// aloca: alocador por avanço sobre uma região fixa de 8 MiB;
		// memória nunca é liberada durante a execução do programa
		nome: "aloca",
		dados: `mensagem_memoria:
    .ascii "erro: memoria esgotada\n"
`,
		bss: "    .lcomm heap, 8388608\n    .lcomm posicao_heap, 8\n",
		codigo: `aloca:
    movq posicao_heap(%rip), %rax
    testq %rax, %rax
    jnz .aloca_avanca
    leaq heap(%rip), %rax
.aloca_avanca:
    leaq (%rax,%rdi), %rcx
    leaq heap(%rip), %rdx
    addq $8388608, %rdx
    cmpq %rdx, %rcx
    ja .aloca_esgotada
    movq %rcx, posicao_heap(%rip)
    ret
.aloca_esgotada:
    movq $1, %rax
    movq $2, %rdi
    leaq mensagem_memoria(%rip), %rsi
    movq $23, %rdx
    syscall
    movq $60, %rax
    movq $1, %rdi
    syscall
`,
	},
	{
		// indice_invalido: aborta o programa com mensagem na saída de erro
		nome: "indice_invalido",
		dados: `mensagem_indice:
    .ascii "erro: indice de arranjo fora dos limites\n"
`,
		codigo: `indice_invalido:
    movq $1, %rax
    movq $2, %rdi
    leaq mensagem_indice(%rip), %rsi
    movq $41, %rdx
    syscall
    movq $60, %rax
    movq $1, %rdi
    syscall
`,
	},
	{
		// sair: encerra o processo com código 0
		nome: "sair",
		codigo: `sair:
    movq $60, %rax
    xorq %rdi, %rdi
    syscall
`,
	},
}

// marcarRotina registra uma rotina e suas dependências como usadas
func (b *X86_64Backend) marcarRotina(nome string) {
	if b.rotinasUsadas[nome] {
		return
	}
	b.rotinasUsadas[nome] = true
	for _, rotina := range rotinasRuntime {
		if rotina.nome == nome {
			for _, dependencia := range rotina.dependencias {
				b.marcarRotina(dependencia)
			}
			return
		}
	}
}
