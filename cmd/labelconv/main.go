package main

import "github.com/annolab/labelconv/internal/cli"

func main() {
	cli.Main()
}
