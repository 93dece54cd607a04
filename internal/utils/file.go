package utils

import (
	"os"
	"path/filepath"
)

// LerArquivo lê um arquivo e retorna seu conteúdo
func LerArquivo(nomeArquivo string) (string, error) {
	bytesConteudo, err := os.ReadFile(nomeArquivo)
	if err != nil {
		return "", NovoErroTipado(ErroLeituraEntrada, "erro ao ler arquivo", 0, 0, err.Error())
	}
	return string(bytesConteudo), nil
}

// EscreverArquivo escreve conteúdo em um arquivo
func EscreverArquivo(nomeArquivo string, conteudo string) error {
	// Cria o diretório se não existir
	diretorio := filepath.Dir(nomeArquivo)
	if err := os.MkdirAll(diretorio, 0755); err != nil {
		return NovoErroTipado(ErroEscritaSaida, "erro ao criar diretório", 0, 0, err.Error())
	}

	// Escreve o arquivo
	if err := os.WriteFile(nomeArquivo, []byte(conteudo), 0644); err != nil {
		return NovoErroTipado(ErroEscritaSaida, "erro ao escrever arquivo", 0, 0, err.Error())
	}

	return nil
}

// RemoverArquivo remove um arquivo gerado, ignorando se ele não existe.
// Usado para não deixar saída parcial quando uma etapa posterior falha.
func RemoverArquivo(nomeArquivo string) {
	if err := os.Remove(nomeArquivo); err != nil && !os.IsNotExist(err) {
		// melhor esforço; o arquivo parcial pode ficar para diagnóstico
		return
	}
}
