package debug

import "fmt"

var Enabled bool = false

// Ativar liga as mensagens de depuração para a compilação atual
func Ativar(ligado bool) {
	Enabled = ligado
}

func Printf(format string, args ...interface{}) {
	if Enabled {
		fmt.Printf(format, args...)
	}
}

func Println(args ...interface{}) {
	if Enabled {
		fmt.Println(args...)
	}
}
