package main

import "github.com/SafeMPC/signin-service/cmd"

func main() {
	cmd.Execute()
}
