package main

import "github.com/unkn0wn-root/rediskit/internal/cli"

func main() {
	cli.Execute()
}
