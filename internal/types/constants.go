// Package types holds process-wide identifiers shared by the CLI, the
// config loader and the engine's diagnostic output.
package types

import "time"

var (
	// AppVersion is injected at build time via -ldflags.
	AppVersion = "v0.1.0"
	BuildTags  = ""
)

const (
	AppName        = "sushi"
	AppDescription = "Audio-driven subtitle re-timer"
	AppLocalDataDir = "sushi"
	AppTomlFile     = "sushi.toml"
	AppCacheDBName  = "sushi-cache"

	// DefaultSampleRate is the mono PCM sample rate AudioStream resamples to.
	DefaultSampleRate = 12000

	AppHelpTemplate = `%s

{{.Description}} (Version: <info>{{.Version}}</>)

<comment>Usage:</>
  {$binName} [Global Options...] <info>{command}</> [--option ...] [argument ...]

<comment>Global Options:</>
{{.GOpts}}
<comment>Available Commands:</>{{range $module, $cs := .Cs}}{{if $module}}
<comment> {{ $module }}</>{{end}}{{ range $cs }}
  <info>{{.Name | paddingName }}</> {{.UseFor}}{{if .Aliases}} (alias: <cyan>{{ join .Aliases ","}}</>){{end}}{{end}}{{end}}

  <info>{{ paddingName "help" }}</> Display help information

Use "<cyan>{$binName} {COMMAND} -h</>" for more information about a command
`
)

const AppHTTPTimeout = 5 * time.Second
