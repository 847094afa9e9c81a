package main

import "github.com/mouse-blink/esmify/cmd"

func main() {
	cmd.Execute()
}
