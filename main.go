package main

import "github.com/jbpagliuco/CppRefl/cmd"

func main() {
	cmd.Execute()
}
