package main

import "github.com/smallbiznis/hostelhub/cmd/hostelhub/commands"

func main() {
	commands.Execute()
}
