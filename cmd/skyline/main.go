package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/five82/skyline/internal/app"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	if len(args) > 0 && args[0] == "serve" {
		err = runServe(ctx, args[1:])
	} else {
		err = runTUI(ctx, args)
	}

	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "skyline: %v\n", err)
		return 1
	}
	return 0
}

func runTUI(ctx context.Context, args []string) error {
	var opts app.Options
	var pollSeconds int

	flags := pflag.NewFlagSet("skyline", pflag.ContinueOnError)
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "config path (default ~/.config/skyline/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences path (default ~/.config/skyline/prefs.toml)")
	flags.StringVar(&opts.APIURL, "api", "", "flights API base URL (overrides api_url)")
	flags.IntVar(&pollSeconds, "poll", 0, "refresh interval in seconds (overrides refresh_seconds)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  skyline [flags]\n  skyline serve [flags]\n\nFlags:\n%s", flags.FlagUsages())
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if rest := flags.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if pollSeconds > 0 {
		opts.PollEvery = time.Duration(pollSeconds) * time.Second
	}
	return app.Run(ctx, opts)
}

func runServe(ctx context.Context, args []string) error {
	var opts app.ServeOptions

	flags := pflag.NewFlagSet("skyline serve", pflag.ContinueOnError)
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "config path (default ~/.config/skyline/config.toml)")
	flags.StringVarP(&opts.Listen, "listen", "l", "", "listen address (overrides listen)")
	flags.StringVar(&opts.UpstreamURL, "upstream", "", "upstream base URL (overrides upstream_url)")
	flags.StringVar(&opts.RedisAddr, "redis", "", "redis address for the shared cache (overrides redis_addr)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  skyline serve [flags]\n\nFlags:\n%s", flags.FlagUsages())
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if rest := flags.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	return app.Serve(ctx, opts)
}
