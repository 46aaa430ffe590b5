package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flag names shared by the commands.
const (
	FlagStatsDir   = "bees-work-dir"
	FlagAddress    = "address"
	FlagPort       = "port"
	FlagLogLevel   = "log-level"
	FlagLogFormat  = "log-format"
	FlagWorkers    = "workers"
	FlagCache      = "cache"
	FlagTimestamps = "timestamps"
)

// AddGlobalFlags adds the flags every command understands.
func (c *Config) AddGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&c.StatsDir, FlagStatsDir, "b", c.StatsDir, "Directory containing bees status files")
	flags.StringVarP(&c.LogLevel, FlagLogLevel, "l", c.LogLevel, "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&c.LogFormat, FlagLogFormat, c.LogFormat, "Log format (text, json)")
	flags.IntVar(&c.Workers, FlagWorkers, c.Workers, "Status files parsed in parallel")
	flags.BoolVar(&c.Cache, FlagCache, c.Cache, "Reuse parsed files whose mtime and size are unchanged")
}

// AddServeFlags adds the HTTP listener flags.
func (c *Config) AddServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.Address, FlagAddress, "a", c.Address, "Address to listen on")
	flags.IntVarP(&c.Port, FlagPort, "p", c.Port, "Port to listen on")
	flags.BoolVar(&c.Timestamps, FlagTimestamps, c.Timestamps, "Attach status file mtime to samples")
}

// Override copies into c every field whose flag was set explicitly on fs.
// from is the Config the flags are bound to.
func (c *Config) Override(fs *pflag.FlagSet, from *Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case FlagStatsDir:
			c.StatsDir = from.StatsDir
		case FlagAddress:
			c.Address = from.Address
		case FlagPort:
			c.Port = from.Port
		case FlagLogLevel:
			c.LogLevel = from.LogLevel
		case FlagLogFormat:
			c.LogFormat = from.LogFormat
		case FlagWorkers:
			c.Workers = from.Workers
		case FlagCache:
			c.Cache = from.Cache
		case FlagTimestamps:
			c.Timestamps = from.Timestamps
		}
	})
}
