package main

import "insightpdf/internal/cli"

func main() {
	cli.Execute()
}
