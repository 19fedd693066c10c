package main

import (
	"github.com/dmorelli/guessphrase/internal/cli"
)

func main() {
	cli.Execute()
}
