package main

import (
	_ "git.handmade.network/hmn/pngkit/src/admintools"
	_ "git.handmade.network/hmn/pngkit/src/fakes3"
	"git.handmade.network/hmn/pngkit/src/tool"
)

func main() {
	tool.RootCommand.Execute()
}
