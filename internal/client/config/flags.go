package config

import (
	"flag"
	"os"
	"time"

	"github.com/sachwave/sachwave/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server (default from Config)
//	-t int      connect timeout in seconds (default from Config)
//	-s string   path of the local state file (default from Config)
//	-u int      update check interval in seconds (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-s", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	connectTimeout := fs.Int("t", int(cfg.ConnectTimeout.Seconds()), "connect timeout (in seconds)")
	fs.StringVar(&cfg.StatePath, "s", cfg.StatePath, "path of the local state file")
	updateCheckInterval := fs.Int("u", int(cfg.UpdateCheckInterval.Seconds()), "update check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ConnectTimeout = time.Duration(*connectTimeout) * time.Second
	cfg.UpdateCheckInterval = time.Duration(*updateCheckInterval) * time.Second
}
