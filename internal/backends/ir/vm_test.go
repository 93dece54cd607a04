package ir_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/khevencolino/Vega/internal/backends/ir"
	"github.com/nalgeon/be"
)

func executar(t *testing.T, fonte string) string {
	t.Helper()
	programa := gerar(t, fonte)
	var saida bytes.Buffer
	err := ir.NovaVM(programa, &saida).Executar(programa)
	be.Err(t, err, nil)
	return saida.String()
}

func TestExecutarPrecedencia(t *testing.T) {
	be.Equal(t, executar(t, `echo 5 + 3 * 2;`), "11")
	be.Equal(t, executar(t, `echo (5 + 3) * 2;`), "16")
	be.Equal(t, executar(t, `echo ((5+3)*(2+10))/2;`), "48")
}

func TestExecutarConcatenacao(t *testing.T) {
	fonte := `$a = "Hello, "; $b = "World!"; echo $a.$b;`
	be.Equal(t, executar(t, fonte), "Hello, World!")
}

func TestExecutarEchoSemSeparador(t *testing.T) {
	// echo a.b e echo a, b produzem saídas idênticas
	concatenado := executar(t, `$a = "Hello, "; $b = "World!"; echo $a.$b;`)
	separado := executar(t, `$a = "Hello, "; $b = "World!"; echo $a, $b;`)
	be.Equal(t, concatenado, separado)
}

func TestExecutarConcatenacaoComecaVazia(t *testing.T) {
	// Operando vazio não muda o outro lado
	be.Equal(t, executar(t, `echo "" . "abc" . "";`), "abc")
}

func TestExecutarConcatenacaoAcumulada(t *testing.T) {
	fonte := `
	$s = "";
	$i = 0;
	while ($i < 3) {
		$s = $s . "ab";
		$i = $i + 1;
	}
	echo $s;`
	be.Equal(t, executar(t, fonte), "ababab")
}

func TestExecutarConcatenacaoComNumeros(t *testing.T) {
	be.Equal(t, executar(t, `echo "x = " . 42;`), "x = 42")
	be.Equal(t, executar(t, `echo "n = " . (0 - 7);`), "n = -7")
}

func TestExecutarBooleanoImpresso(t *testing.T) {
	// Verdadeiro imprime "1", falso imprime vazio
	be.Equal(t, executar(t, `echo true;`), "1")
	be.Equal(t, executar(t, `echo false;`), "")
	be.Equal(t, executar(t, `echo true . "x" . false;`), "1x")
}

func TestExecutarCadeiaSeEscolheUmRamo(t *testing.T) {
	fonte := `
	$x = %s;
	if ($x == 1) { echo "um"; }
	elseif ($x == 2) { echo "dois"; }
	elseif ($x == 3) { echo "três"; }
	else { echo "outro"; }`

	casos := map[string]string{
		"1": "um",
		"2": "dois",
		"3": "três",
		"9": "outro",
	}
	for valor, esperado := range casos {
		be.Equal(t, executar(t, strings.Replace(fonte, "%s", valor, 1)), esperado)
	}
}

func TestExecutarLacoContado(t *testing.T) {
	fonte := `
	$i = 1;
	while ($i <= 5) {
		echo $i;
		$i = $i + 1;
	}`
	be.Equal(t, executar(t, fonte), "12345")
}

func TestExecutarVerdadePHP(t *testing.T) {
	be.Equal(t, executar(t, `if (0) { echo "a"; } else { echo "b"; }`), "b")
	be.Equal(t, executar(t, `if ("") { echo "a"; } else { echo "b"; }`), "b")
	be.Equal(t, executar(t, `if ("0") { echo "a"; } else { echo "b"; }`), "a")
	be.Equal(t, executar(t, `if (7) { echo "a"; } else { echo "b"; }`), "a")
}

func TestExecutarArranjoLeitura(t *testing.T) {
	fonte := `$a = array(10, 20, 30); echo $a[0], $a[1], $a[2];`
	be.Equal(t, executar(t, fonte), "102030")
}

func TestExecutarArranjoMutacaoPontual(t *testing.T) {
	// Sobrescrever um índice não afeta os vizinhos
	fonte := `
	$a = array(1, 2, 3);
	$a[1] = 9;
	echo $a[0], $a[1], $a[2];`
	be.Equal(t, executar(t, fonte), "193")
}

func TestExecutarArranjoComChaves(t *testing.T) {
	fonte := `$p = array("nome" => "Ada", "peso" => "80kg"); echo $p["nome"], " ", $p["peso"];`
	be.Equal(t, executar(t, fonte), "Ada 80kg")
}

func TestExecutarArranjoIndiceDinamico(t *testing.T) {
	fonte := `
	$a = array(5, 6, 7);
	$soma = 0;
	$i = 0;
	while ($i < 3) {
		$soma = $soma + $a[$i];
		$i = $i + 1;
	}
	echo $soma;`
	be.Equal(t, executar(t, fonte), "18")
}

func TestExecutarIndiceDinamicoForaDosLimites(t *testing.T) {
	programa := gerar(t, `$a = array(1, 2); $i = 5; echo $a[$i];`)
	var saida bytes.Buffer
	err := ir.NovaVM(programa, &saida).Executar(programa)
	be.True(t, err != nil)
}

func TestExecutarDivisaoPorZero(t *testing.T) {
	programa := gerar(t, `$z = 0; echo 1 / $z;`)
	var saida bytes.Buffer
	err := ir.NovaVM(programa, &saida).Executar(programa)
	be.True(t, err != nil)
}

func TestExecutarComparacaoDeTextos(t *testing.T) {
	be.Equal(t, executar(t, `echo "abc" == "abc";`), "1")
	be.Equal(t, executar(t, `echo "abc" == "abd";`), "")
	be.Equal(t, executar(t, `echo "abc" != "abd";`), "1")
}

func TestExecutarVariavelDeRamoNaoTomado(t *testing.T) {
	// Atribuída só num ramo nunca executado, a variável vale o zero do
	// seu tipo: texto vazio, inteiro 0, falso
	fonte := `
	if (0) { $s = "x"; }
	echo "[" . $s . "]";`
	be.Equal(t, executar(t, fonte), "[]")

	be.Equal(t, executar(t, `if (0) { $n = 7; } echo $n + 1;`), "1")
	be.Equal(t, executar(t, `if (0) { $b = true; } echo $b;`), "")
}

func TestExecutarArranjoComLacunas(t *testing.T) {
	// Posições nunca escritas valem o zero do tipo do elemento
	be.Equal(t, executar(t, `$a = array(2 => 5); echo $a[0], $a[2];`), "05")
	be.Equal(t, executar(t, `$t = array(2 => "fim"); echo $t[0], $t[2];`), "fim")
}

func TestExecutarExpressaoProfunda(t *testing.T) {
	// Aninhamento além do número de registradores do backend nativo
	fonte := `echo (1+(2+(3+(4+(5+(6+(7+(8+(9+10)))))))));`
	be.Equal(t, executar(t, fonte), "55")
}
