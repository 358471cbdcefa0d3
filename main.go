package main

import "github.com/killallgit/cinechat/cmd"

func main() {
	cmd.Execute()
}
