// cmd/main.go is the application entry point.
// It hands control to the busres command tree.
package main

import "github.com/Shivanand-hulikatti/bus-seat-reservation/internal/cli"

func main() {
	cli.Execute()
}
