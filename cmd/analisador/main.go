package main

import (
	"os"

	"github.com/Wozniak7/Analisador-Financeiro/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
