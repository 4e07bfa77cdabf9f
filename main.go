package main

import "udinder-backend/cmd"

func main() {
	cmd.Execute()
}
