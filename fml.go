package main

import (
	"github.com/LBJ-Wade/FML/cmd"
)

func main() {
	cmd.Execute()
}
