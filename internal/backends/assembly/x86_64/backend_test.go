package x86_64_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/khevencolino/Vega/internal/backends/assembly/x86_64"
	"github.com/khevencolino/Vega/internal/backends/ir"
	"github.com/khevencolino/Vega/internal/compiler"
	"github.com/khevencolino/Vega/internal/config"
	"github.com/khevencolino/Vega/internal/lexer"
	"github.com/khevencolino/Vega/internal/parser"
	"github.com/nalgeon/be"
)

// emitir compila a fonte até o arquivo .s, sem invocar a toolchain
func emitir(t *testing.T, fonte string) string {
	t.Helper()

	tokens, err := lexer.NovoLexer(fonte).Tokenizar()
	be.Err(t, err, nil)
	comandos, err := parser.NovoParser(tokens).AnalisarPrograma()
	be.Err(t, err, nil)
	tabela, err := compiler.NovoVerificadorTipos().VerificarPrograma(comandos)
	be.Err(t, err, nil)
	programa, err := ir.NovoGerador(tabela).GerarPrograma(comandos)
	be.Err(t, err, nil)

	cfg := config.Padrao()
	cfg.DiretorioSaida = t.TempDir()

	backend := x86_64.NovoBackend(cfg, true)
	be.Err(t, backend.Compile(programa), nil)

	conteudo, err := os.ReadFile(filepath.Join(cfg.DiretorioSaida, "programa.s"))
	be.Err(t, err, nil)
	return string(conteudo)
}

func TestEmitirEstruturaBasica(t *testing.T) {
	texto := emitir(t, `echo 1;`)

	be.True(t, strings.Contains(texto, ".section .rodata"))
	be.True(t, strings.Contains(texto, ".global _start"))
	be.True(t, strings.Contains(texto, "_start:"))
	be.True(t, strings.Contains(texto, "call imprime_num"))
	be.True(t, strings.Contains(texto, "call sair"))
	be.True(t, strings.Contains(texto, "syscall"))
}

func TestEmitirPoolDeTextos(t *testing.T) {
	texto := emitir(t, `echo "Hello, World!";`)

	// Cabeçalho com tamanho seguido dos bytes
	be.True(t, strings.Contains(texto, "texto_0:\n    .quad 13\n    .ascii \"Hello, World!\""))
	be.True(t, strings.Contains(texto, "call imprime_texto"))
}

func TestEmitirConcatenacaoChamaRuntime(t *testing.T) {
	texto := emitir(t, `echo "a" . "b";`)

	be.True(t, strings.Contains(texto, "call concatena"))
	// A rotina de alocação acompanha a concatenação
	be.True(t, strings.Contains(texto, "aloca:"))
	be.True(t, strings.Contains(texto, ".lcomm heap, 8388608"))
}

func TestEmitirConversaoParaTexto(t *testing.T) {
	texto := emitir(t, `echo "n" . 1 . true;`)

	be.True(t, strings.Contains(texto, "call num_para_texto"))
	be.True(t, strings.Contains(texto, "call bool_para_texto"))
}

func TestEmitirRuntimeSobDemanda(t *testing.T) {
	// Programa sem textos nem arranjos não carrega as rotinas deles
	texto := emitir(t, `echo 1 + 2;`)

	be.True(t, !strings.Contains(texto, "concatena:"))
	be.True(t, !strings.Contains(texto, "textos_iguais:"))
	be.True(t, !strings.Contains(texto, "indice_invalido:"))
}

func TestEmitirVariaveisNoQuadro(t *testing.T) {
	texto := emitir(t, `$a = 1; $b = 2; echo $a + $b;`)

	be.True(t, strings.Contains(texto, "subq $16, %rsp"))
	be.True(t, strings.Contains(texto, "-8(%rbp)"))
	be.True(t, strings.Contains(texto, "-16(%rbp)"))
}

func TestEmitirChecagemDeLimite(t *testing.T) {
	texto := emitir(t, `$a = array(1, 2, 3); $i = 1; echo $a[$i];`)

	be.True(t, strings.Contains(texto, "cmpq $3, %rcx"))
	be.True(t, strings.Contains(texto, "jae indice_invalido"))
	be.True(t, strings.Contains(texto, "indice_invalido:"))
	// A região do arranjo é zerada na declaração
	be.True(t, strings.Contains(texto, "rep stosq"))
}

func TestEmitirComparacaoDeTextos(t *testing.T) {
	texto := emitir(t, `$x = "a" != "b"; echo $x;`)

	be.True(t, strings.Contains(texto, "call textos_iguais"))
	be.True(t, strings.Contains(texto, "xorq $1, %rax"))
}

func TestEmitirRotulosDeControle(t *testing.T) {
	texto := emitir(t, `$i = 0; while ($i < 3) { $i = $i + 1; }`)

	be.True(t, strings.Contains(texto, "rotulo_0:"))
	be.True(t, strings.Contains(texto, "rotulo_1:"))
	be.True(t, strings.Contains(texto, "jmp rotulo_0"))
	be.True(t, strings.Contains(texto, "jz rotulo_1"))
}

func TestEmitirExpressaoProfundaDerrama(t *testing.T) {
	// Sete operandos vivos excedem os cinco registradores da pilha
	texto := emitir(t, `echo (1+(2+(3+(4+(5+(6+7))))));`)

	be.True(t, strings.Contains(texto, "movq $6, -8(%rbp)"))
	be.True(t, strings.Contains(texto, "movq $7, -16(%rbp)"))
}

func TestEmitirQuadroZerado(t *testing.T) {
	// Variável de texto atribuída só num ramo nunca tomado: o quadro é
	// limpo no prólogo e a célula aponta para o texto vazio antes de
	// qualquer leitura
	texto := emitir(t, `if (0) { $s = "x"; } echo $s;`)

	be.True(t, strings.Contains(texto,
		"subq $16, %rsp\n    leaq -16(%rbp), %rdi\n    movq $2, %rcx\n    xorq %rax, %rax\n    rep stosq"))
	be.True(t, strings.Contains(texto, "texto_vazio:\n    .quad 0"))
	be.True(t, strings.Contains(texto,
		"leaq texto_vazio(%rip), %rax\n    movq %rax, -8(%rbp)"))
}

func TestEmitirArranjoDeTextosComecaVazio(t *testing.T) {
	// Lacunas de um arranjo de textos recebem o texto vazio, não zero
	texto := emitir(t, `$t = array(2 => "fim"); echo $t[0];`)

	be.True(t, strings.Contains(texto, "leaq texto_vazio(%rip), %rax\n    rep stosq"))
}

func TestCompileRemoveObjetoQuandoLigadorFalha(t *testing.T) {
	dir := t.TempDir()

	montador := filepath.Join(dir, "montador.sh")
	be.Err(t, os.WriteFile(montador, []byte("#!/bin/sh\ncp \"$3\" \"$2\"\n"), 0o755), nil)
	ligador := filepath.Join(dir, "ligador.sh")
	be.Err(t, os.WriteFile(ligador, []byte("#!/bin/sh\nexit 1\n"), 0o755), nil)

	tokens, err := lexer.NovoLexer(`echo 1;`).Tokenizar()
	be.Err(t, err, nil)
	comandos, err := parser.NovoParser(tokens).AnalisarPrograma()
	be.Err(t, err, nil)
	tabela, err := compiler.NovoVerificadorTipos().VerificarPrograma(comandos)
	be.Err(t, err, nil)
	programa, err := ir.NovoGerador(tabela).GerarPrograma(comandos)
	be.Err(t, err, nil)

	cfg := config.Padrao()
	cfg.DiretorioSaida = dir
	cfg.Montador = montador
	cfg.Ligador = ligador

	err = x86_64.NovoBackend(cfg, false).Compile(programa)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "erro ao ligar"))

	// Aborto limpo: nem o executável nem o objeto ficam para trás
	_, err = os.Stat(filepath.Join(dir, "programa"))
	be.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "programa.o"))
	be.True(t, os.IsNotExist(err))
}

func TestEmitirDeterministico(t *testing.T) {
	fonte := `
	$a = array("x" => 1, "y" => 2);
	$s = "r: " . $a["x"] . $a["y"];
	if ($s != "") { echo $s; } else { echo "vazio"; }`

	primeira := emitir(t, fonte)
	segunda := emitir(t, fonte)
	be.Equal(t, primeira, segunda)
}
