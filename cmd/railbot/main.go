package main

import (
	"github.com/andrescamacho/railbot-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
