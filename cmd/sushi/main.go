package main

import (
	"github.com/gookit/gcli/v2"

	"github.com/tp7/sushi-go/internal/commands"
	"github.com/tp7/sushi-go/internal/errorsx"
	"github.com/tp7/sushi-go/internal/types"
)

func main() {
	defer errorsx.Recover(false)
	sushi()
}

func sushi() {
	app := gcli.NewApp()
	app.Name = types.AppName
	app.Version = types.AppVersion
	if types.BuildTags != "" {
		app.Version += " [" + types.BuildTags + "]"
	}
	app.Description = types.AppDescription
	app.GOptsBinder = func(gf *gcli.Flags) {
		gf.BoolOpt(&commands.GlobalOptions.DebugMode, "debug", "", false, "enable debug log level")
	}

	syncCommand := commands.NewSyncCommand()
	app.Add(syncCommand)
	app.Add(commands.NewConfigCommand())
	app.DefaultCommand(syncCommand.Name)

	app.Run()
}
