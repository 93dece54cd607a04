package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/khevencolino/Vega/internal/compiler"
	"github.com/khevencolino/Vega/internal/config"
	"github.com/khevencolino/Vega/internal/debug"
)

func main() {
	backend := flag.String("backend", "assembly", "Backend a ser usado (assembly, vm)")
	arch := flag.String("arch", "x86_64", "Arquitetura para assembly (x86_64)")
	saida := flag.String("saida", "", "Diretório de saída (padrão: result ou o da configuração)")
	arquivoConfig := flag.String("config", "", "Arquivo de configuração YAML da toolchain")
	somenteAsm := flag.Bool("somente-asm", false, "Gera o arquivo .s sem montar nem ligar")
	ativarDebug := flag.Bool("debug", false, "Ativar mensagens de debug")
	help := flag.Bool("help", false, "Mostra ajuda")
	flag.Parse()

	if *help {
		mostrarAjuda()
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Erro: arquivo de entrada requerido\n")
		os.Exit(1)
	}

	debug.Ativar(*ativarDebug)

	cfg := config.Padrao()
	if *arquivoConfig != "" {
		var err error
		if cfg, err = config.Carregar(*arquivoConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
			os.Exit(1)
		}
	}
	if *saida != "" {
		cfg.DiretorioSaida = *saida
	}

	compilador := compiler.NovoCompilador()
	err := compilador.CompilarArquivo(args[0], compiler.Opcoes{
		Backend:      *backend,
		Arquitetura:  *arch,
		Configuracao: cfg,
		SomenteAsm:   *somenteAsm,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro de compilação: %v\n", err)

		var erroFase *compiler.ErroDeFase
		if errors.As(err, &erroFase) {
			os.Exit(erroFase.Fase.CodigoSaida())
		}
		os.Exit(1)
	}
}

func mostrarAjuda() {
	fmt.Printf(`Compilador Vega

USO:
    vega-compiler [flags] <arquivo>

FLAGS:
    -backend=<tipo>     Backend a ser usado (padrão: assembly)
    -arch=<arquitetura> Arquitetura para assembly (padrão: x86_64)
    -saida=<diretório>  Diretório dos artefatos gerados (padrão: result)
    -config=<arquivo>   Configuração YAML da toolchain (montador, ligador)
    -somente-asm        Gera o arquivo .s sem invocar montador e ligador
    -debug              Ativar mensagens de debug
    -help               Mostra esta ajuda

BACKENDS DISPONÍVEIS:

assembly, asm, native
    - Compilação para Assembly nativo x86-64 (AT&T, Linux)
    - Monta e liga com a toolchain configurada, gerando executável

vm, interp, interpreter
    - Executa as instruções intermediárias diretamente
    - Útil para conferir a semântica sem depender do montador

CÓDIGOS DE SAÍDA:
    0  compilação bem sucedida
    1  uso incorreto ou erro de leitura do arquivo
    2  erro léxico ou sintático
    3  erro de verificação de tipos
    4  erro na geração de instruções
    5  erro de emissão ou da toolchain

EXEMPLOS:
    vega-compiler programa.php                       # Gera executável nativo
    vega-compiler -backend=vm programa.php           # Executa na VM
    vega-compiler -somente-asm programa.php          # Apenas o arquivo .s
    vega-compiler -config=vega.yml programa.php      # Toolchain customizada
    vega-compiler -debug programa.php                # Com mensagens de debug
`)
}
