package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nidal-Bakir/go-movie-proxy/internal/appenv"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/logger"
	"github.com/Nidal-Bakir/go-movie-proxy/internal/server"
)

func main() {
	if err := appenv.Load(); err != nil {
		pwd, _ := os.Getwd()
		log.Fatalf("error: can not load the env, pwd= %s, err= %v", pwd, err)
	}

	conf, err := appenv.ReadConfig()
	if err != nil {
		log.Fatalf("error: invalid config: %v", err)
	}

	zlog, err := logger.NewLogger(appenv.IsLocal(), conf.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	if conf.OmdbAPIKey == "" {
		zlog.Warn().Msg("OMDB_API_KEY is empty, the movie service will reject every search")
	}

	// Server run context
	serverWithCancelCtx, serverStopCancelFunc := context.WithCancel(context.Background())

	server, closeServer, err := server.NewServer(serverWithCancelCtx, conf, zlog)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Can not create the server")
	}
	defer closeServer()

	// Listen for syscall signals for process to interrupt/quit
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		// Shutdown signal with grace period of 30 seconds
		shutdownCtx, shutdownCancelFunc := context.WithTimeout(serverWithCancelCtx, 30*time.Second)
		defer shutdownCancelFunc()

		go func() {
			<-shutdownCtx.Done()
			if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
				zlog.Fatal().Msg("graceful shutdown timed out.. forcing exit.")
			}
		}()

		// Trigger graceful shutdown
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			zlog.Fatal().Err(err).Msg("Error while shutting down the server")
		}

		serverStopCancelFunc()
	}()

	zlog.Info().Str("addr", server.Addr).Str("env", appenv.EnvName).Msg("Starting the server")
	err = server.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			fmt.Println("\nServer Stopped Gracefully.")
		} else {
			panic(fmt.Sprintf("can't start the server error: %s", err))
		}
	}

	// Wait for server context to be stopped
	<-serverWithCancelCtx.Done()
}
