package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config define a integração com a toolchain nativa: quais comandos
// montam e ligam o assembly gerado e onde os artefatos são escritos.
type Config struct {
	Montador       string `yaml:"montador"`        // comando do montador
	Ligador        string `yaml:"ligador"`         // comando do ligador
	DiretorioSaida string `yaml:"diretorio_saida"` // onde ficam .s, .o e o executável
}

// Padrao retorna a configuração usada quando não há arquivo
func Padrao() *Config {
	return &Config{
		Montador:       "as",
		Ligador:        "ld",
		DiretorioSaida: "result",
	}
}

// Carregar lê a configuração de um arquivo YAML. Campos ausentes
// mantêm os valores padrão.
func Carregar(caminho string) (*Config, error) {
	conteudo, err := os.ReadFile(caminho)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler configuração '%s': %w", caminho, err)
	}

	cfg := Padrao()
	if err := yaml.Unmarshal(conteudo, cfg); err != nil {
		return nil, fmt.Errorf("erro ao interpretar configuração '%s': %w", caminho, err)
	}
	return cfg, nil
}
