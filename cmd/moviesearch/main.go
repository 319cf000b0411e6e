package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/movieclient"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		apiURL  string
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:          "moviesearch <title...>",
		Short:        "Look up a movie through the movie proxy",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()

			client, err := movieclient.New(apiURL, timeout)
			if err != nil {
				return err
			}

			title := strings.Join(args, " ")
			log.Debug().Str("title", title).Str("api_url", apiURL).Msg("searching")

			movie, err := client.Search(cmd.Context(), title)
			if err != nil {
				if errors.Is(err, movieclient.ErrMovieNotFound) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", strings.TrimPrefix(err.Error(), movieclient.ErrMovieNotFound.Error()+": "))
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: [%s]\n", err)
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), movieclient.Render(movie))
			return nil
		},
	}

	defaultURL := os.Getenv("MOVIE_API_URL")
	if defaultURL == "" {
		defaultURL = movieclient.DefaultAPIURL
	}
	cmd.Flags().StringVar(&apiURL, "api-url", defaultURL, "movie proxy base url (env MOVIE_API_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logs")
	cmd.SilenceErrors = true

	return cmd
}
