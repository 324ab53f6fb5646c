// Command twitchchat connects to the Twitch chat gateway, joins a channel,
// and prints chat to the terminal until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cyberinferno/twitchirc/client"
	"github.com/cyberinferno/twitchirc/config"
	"github.com/cyberinferno/twitchirc/history"
)

var (
	configPath string
	channel    string
)

var rootCmd = &cobra.Command{
	Use:   "twitchchat",
	Short: "Read and send Twitch chat from the terminal",
	Long: `twitchchat connects to Twitch's IRC-compatible chat gateway with the
identity from the config file (or TWITCHIRC_* environment variables), joins
the configured channel, and prints chat lines until interrupted.`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to yaml config file")
	rootCmd.Flags().StringVarP(&channel, "channel", "n", "", "channel to join, overrides config")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if channel != "" {
		cfg.Channel = channel
	}

	log := newLogger(cfg.LogLevel)

	chatHistory := history.New(30*time.Minute, time.Minute, history.DefaultPerChannelLimit)

	clientCfg := client.DefaultConfig(cfg.Username, cfg.Token)
	clientCfg.Host = cfg.Host
	clientCfg.Port = cfg.Port
	clientCfg.Channel = cfg.Channel
	clientCfg.Logger = log
	clientCfg.History = chatHistory

	c := client.New(clientCfg)
	defer c.Close()

	c.OnStateChange(func(event client.StateChangeEvent) {
		log.Info().Stringer("state", event.State).Str("channel", event.Channel).Msg("session state")
	})
	c.OnMessage(func(event client.MessageEvent) {
		fmt.Printf("[#%s] %s: %s\n", event.Line.Channel, event.Line.User, event.Line.Message)
	})

	if err := c.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("interrupted, closing session")
	return nil
}

// newLogger builds a console zerolog logger at the given level; unknown
// level strings fall back to info.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
