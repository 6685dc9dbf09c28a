package main

import "github.com/umbraco/Umbraco.AI-sub015/cmd/server/commands"

func main() {
	commands.Execute()
}
