// skipbench 是 skip list 的外部量測工具：計時、產生 bench 檔、重播與結構檢視
package main

import (
	"io"
	"os"

	"github.com/Hakuto4838/skipmap/internal/app"
)

const appName = "skipbench"

func main() {
	newApp(os.Stdout).Run()
}

func newApp(out io.Writer, opts ...app.Option) *app.App {
	g := &globalOptions{}
	a := app.NewApp(appName, append([]app.Option{
		app.WithDescription("skipbench measures and inspects the skip list map."),
		app.WithOptions(g),
	}, opts...)...)

	a.AddCommands(
		newTimeCommand(g, out),
		newGenCommand(g, out),
		newReplayCommand(g, out),
		newInspectCommand(g, out),
	)
	return a
}
