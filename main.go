package main

import (
	"github.com/moeidioms/crawler/cmd"
)

func main() {
	cmd.Execute()
}
