package main

import "fattybrewing/internal/cli"

func main() {
	cli.Execute()
}
