package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/khevencolino/Vega/internal/config"
	"github.com/nalgeon/be"
)

func faseDoErro(t *testing.T, err error) Fase {
	t.Helper()
	var erroFase *ErroDeFase
	be.True(t, errors.As(err, &erroFase))
	return erroFase.Fase
}

func TestCompilarArquivoInexistente(t *testing.T) {
	err := NovoCompilador().CompilarArquivo("nao-existe.php", Opcoes{Backend: "vm"})
	be.Equal(t, faseDoErro(t, err), FaseLeitura)
	be.Equal(t, FaseLeitura.CodigoSaida(), 1)
}

func TestCompilarErroLexico(t *testing.T) {
	err := NovoCompilador().Compilar(`$x = @;`, Opcoes{Backend: "vm"})
	be.Equal(t, faseDoErro(t, err), FaseAnalise)
	be.Equal(t, FaseAnalise.CodigoSaida(), 2)
}

func TestCompilarErroSintatico(t *testing.T) {
	err := NovoCompilador().Compilar(`echo 1 +;`, Opcoes{Backend: "vm"})
	be.Equal(t, faseDoErro(t, err), FaseAnalise)
}

func TestCompilarErroDeTipos(t *testing.T) {
	err := NovoCompilador().Compilar(`echo $indefinida;`, Opcoes{Backend: "vm"})
	be.Equal(t, faseDoErro(t, err), FaseVerificacao)
	be.Equal(t, FaseVerificacao.CodigoSaida(), 3)
}

func TestCompilarBackendDesconhecido(t *testing.T) {
	err := NovoCompilador().Compilar(`echo 1;`, Opcoes{Backend: "cobol"})
	be.Equal(t, faseDoErro(t, err), FaseEmissao)
	be.Equal(t, FaseEmissao.CodigoSaida(), 5)
}

func TestCompilarSomenteAsm(t *testing.T) {
	cfg := config.Padrao()
	cfg.DiretorioSaida = t.TempDir()

	err := NovoCompilador().Compilar(`echo "ok";`, Opcoes{
		Backend:      "assembly",
		Arquitetura:  "x86_64",
		Configuracao: cfg,
		SomenteAsm:   true,
	})
	be.Err(t, err, nil)

	_, err = os.Stat(filepath.Join(cfg.DiretorioSaida, "programa.s"))
	be.Err(t, err, nil)
}

func TestCompilarArquiteturaDesconhecida(t *testing.T) {
	err := NovoCompilador().Compilar(`echo 1;`, Opcoes{
		Backend:     "assembly",
		Arquitetura: "mips",
	})
	be.Equal(t, faseDoErro(t, err), FaseEmissao)
}
