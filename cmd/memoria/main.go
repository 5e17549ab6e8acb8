package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucasmr/memoria/pkg/assistant"
	"github.com/lucasmr/memoria/pkg/config"
	"github.com/lucasmr/memoria/pkg/llm"
	"github.com/lucasmr/memoria/pkg/model"
	"github.com/lucasmr/memoria/pkg/notify"
	"github.com/lucasmr/memoria/pkg/reminder"
	"github.com/lucasmr/memoria/pkg/server"
	"github.com/lucasmr/memoria/pkg/store/sqlite"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "memoria",
		Short: "Voice-driven personal memory assistant",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("MEMORIA_CONFIG"), "path to YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(eventsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *sqlite.Store
	assistant *assistant.Assistant
	notifier  model.Notifier
}

func buildApp(ctx context.Context) (*app, error) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.New(ctx, sqlite.Config{Path: cfg.DBPath, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	client, err := llm.New(llm.Config{
		APIKey:          cfg.OpenAI.APIKey,
		BaseURL:         cfg.OpenAI.BaseURL,
		ChatModel:       cfg.OpenAI.ChatModel,
		TranscribeModel: cfg.OpenAI.TranscribeModel,
		Language:        cfg.OpenAI.Language,
		Timeout:         cfg.OpenAI.Timeout.Std(),
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init model client: %w", err)
	}

	asst, err := assistant.New(assistant.Options{
		Store:       store,
		Extractor:   client,
		Transcriber: client,
		Logger:      logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	var notifier model.Notifier = notify.NewLogNotifier(logger)
	if cfg.Reminder.NotifyCommand != "" {
		notifier = notify.NewCommandNotifier(cfg.Reminder.NotifyCommand)
	}

	return &app{cfg: cfg, logger: logger, store: store, assistant: asst, notifier: notifier}, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.store.Close()

			sched := reminder.NewScheduler(a.store, a.notifier, a.cfg.Reminder.PollInterval.Std(), a.logger)
			sched.Start()
			defer sched.Stop()

			srv := &http.Server{
				Addr:    a.cfg.ListenAddr,
				Handler: server.New(a.assistant, a.store, a.logger).Router(),
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("starting memoria server", "addr", a.cfg.ListenAddr, "db", a.cfg.DBPath)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			a.logger.Info("shutting down")
			sched.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("http shutdown", "err", err)
			}
			return nil
		},
	}
}

func processCmd() *cobra.Command {
	var audioPath string

	cmd := &cobra.Command{
		Use:   "process [text]",
		Short: "Run one assistant turn from text or a recorded clip",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.store.Close()

			var result *assistant.TurnResult
			switch {
			case audioPath != "":
				result, err = a.assistant.ProcessAudio(ctx, audioPath)
			case len(args) > 0:
				result, err = a.assistant.ProcessTranscript(ctx, strings.Join(args, " "))
			default:
				return fmt.Errorf("provide text arguments or --audio")
			}
			if err != nil {
				return err
			}

			fmt.Println(result.Reply)
			if len(result.SavedEvents) > 0 {
				fmt.Printf("(%d evento(s) salvos, %d lembrete(s) criados)\n",
					len(result.SavedEvents), result.RemindersCreated)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&audioPath, "audio", "", "path to a recorded audio clip")
	return cmd
}

func eventsCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List stored events for a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.store.Close()

			if date == "" {
				date = time.Now().Format("02/01/2006")
			}
			events, err := a.store.GetEventsByDate(ctx, date)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Printf("Nenhum evento em %s\n", date)
				return nil
			}
			for _, ev := range events {
				line := fmt.Sprintf("- %s (%s, %s)", ev.Title, ev.Category, ev.Priority)
				if ev.Time != "" {
					line += " às " + ev.Time
				}
				if ev.Location != "" {
					line += " em " + ev.Location
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date in DD/MM/YYYY (defaults to today)")
	return cmd
}
