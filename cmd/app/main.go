// Cloth mask generation and try-on result watching
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"cloth-mask/internal/cli"
)

const AppVersion = "1.0.0"

func main() {
	root := cli.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(AppVersion),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
