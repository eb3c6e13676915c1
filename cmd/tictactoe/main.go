// Command tictactoe serves games against an unbeatable computer over HTTP,
// or plays one in the terminal.
//
//	tictactoe [serve] [-config path] [-addr :8080]
//	tictactoe play [-config path]
//	tictactoe config [-init] [-config path]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jaminalder/minimax-tic-tac-toe/internal/app"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/config"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/logging"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/term"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/web"
)

func main() {
	args := os.Args[1:]
	cmd := "serve"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "serve":
		err = serve(ctx, args)
	case "play":
		err = play(ctx, args)
	case "config":
		err = configCmd(args)
	default:
		err = fmt.Errorf("unknown command %q (want serve, play or config)", cmd)
	}
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "tictactoe:", err)
		os.Exit(1)
	}
}

func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, error) {
	cfgPath := fs.String("config", "", "Path to config.json (default: XDG config search)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return config.Load(*cfgPath)
}

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "HTTP listen address (overrides config)")
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(log.GetLevel())

	svc := app.NewService(
		app.WithLogger(log.With().Str("component", "app").Logger()),
		app.WithTTL(cfg.Sessions.TTL.Std()),
	)
	go svc.RunSweeper(ctx, cfg.Sessions.SweepInterval.Std())

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewServer(svc,
			web.WithLogger(log.With().Str("component", "web").Logger()),
			web.WithHeartbeat(cfg.Web.Heartbeat.Std()),
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func play(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	svc := app.NewService(app.WithLogger(log))
	return term.Play(ctx, svc, os.Stdin, os.Stdout, term.NewRenderer(os.Stdout), log)
}

func configCmd(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	initCfg := fs.Bool("init", false, "Write the default config to -config or the XDG config dir")
	cfgPath := fs.String("config", "", "Path to config.json (default: XDG config search)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *initCfg {
		cfg := config.DefaultConfig
		path, err := cfg.Save(*cfgPath)
		if err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
