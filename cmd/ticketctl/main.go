package main

import "github.com/iliyamo/cinema-booking/internal/cli"

func main() {
	cli.Execute()
}
