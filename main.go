package main

import "github.com/KaramelBytes/corrloom/cmd"

func main() {
	cmd.Execute()
}
