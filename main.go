package main

import "github.com/custodia-labs/sopsearch-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
