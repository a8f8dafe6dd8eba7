package main

import "github.com/calmh/imupi/internal/cmd"

func main() {
	cmd.Execute()
}
