package main

import "github.com/josephlewis42/watchsh/cmd"

func main() {
	cmd.Execute()
}
