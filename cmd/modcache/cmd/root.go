package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aweris/modcache"
	"github.com/aweris/modcache/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "modcache",
	Short:         "Mod download cache and version tool",
	Long:          "CLI for managing the mod download cache and checking version relationships.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "modcache"})

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/modcache/config.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", "", "cache directory (must exist; default: configured or platform cache dir)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("cache_dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	viper.SetEnvPrefix("MODCACHE")
	viper.AutomaticEnv()

	if viper.GetBool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}
}

func configPath() string {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		return cfg
	}
	return config.DefaultPath()
}

// openCache opens the cache named by --cache-dir or, failing that, the one
// recorded in the config file.
func openCache() (*modcache.Cache, error) {
	cfg, err := modcache.LoadConfig(configPath())
	if err != nil {
		return nil, err
	}

	opts := []modcache.Option{modcache.WithConfig(cfg), modcache.WithLogger(logger)}
	if dir := getCacheDir(); dir != "" {
		opts = append(opts, modcache.WithCacheDir(dir))
	}
	return modcache.Open(opts...)
}

func getCacheDir() string {
	return viper.GetString("cache_dir")
}
