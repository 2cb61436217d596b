package commands

import (
	"fmt"

	"github.com/gookit/gcli/v2"

	"github.com/tp7/sushi-go/internal/appdirs"
	"github.com/tp7/sushi-go/internal/config"
)

// NewConfigCommand prints the config file sync would load and the
// effective tunables after applying it.
func NewConfigCommand() *gcli.Command {
	return &gcli.Command{
		Name:   "config",
		UseFor: "Print the configuration file and effective engine tunables",
		Func: func(_ *gcli.Command, _ []string) error {
			path := appdirs.ConfigFilePath()
			fmt.Printf("Config file: %s\n\n", path)

			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			fmt.Printf("sample_rate      = %d\n", cfg.SampleRate)
			fmt.Printf("allowed_error    = %v\n", cfg.AllowedError)
			fmt.Printf("max_group_std    = %v\n", cfg.MaxGroupStd)
			fmt.Printf("normal_window    = %v\n", cfg.NormalWindow)
			fmt.Printf("max_window       = %v\n", cfg.MaxWindow)
			fmt.Printf("rewind_thresh    = %d\n", cfg.RewindThresh)
			fmt.Printf("max_ts_duration  = %v\n", cfg.MaxTsDuration)
			fmt.Printf("max_ts_distance  = %v\n", cfg.MaxTsDistance)
			fmt.Printf("min_group_size   = %d\n", cfg.MinGroupSize)
			fmt.Printf("smooth_radius    = %d\n", cfg.SmoothRadius)
			fmt.Printf("max_kf_distance  = %d\n", cfg.MaxKfDistance)
			fmt.Printf("cache_enabled    = %v\n", cfg.CacheEnabled)
			return nil
		},
	}
}
