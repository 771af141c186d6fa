package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/restful-objects/objects-contract-tests/framework"
	"github.com/restful-objects/objects-contract-tests/mockapi"
)

const defaultServePort = 8111

func newServeCommand(stderr io.Writer) *cobra.Command {
	var port int
	var opts mockapi.Options
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory /objects service to test against",
		Long: "Serves the /objects resource from memory, seeded with the public service's sample\n" +
			"objects, so the suite can run without network access.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = framework.LoggerWithPrefix(log.New(stderr, "", log.LstdFlags), "[objects] ")
			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           mockapi.New(opts),
				ReadHeaderTimeout: time.Second * 10,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			}()

			fmt.Fprintf(stderr, "objects service listening on :%d\n", port)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", defaultServePort, "port to listen on")
	cmd.Flags().StringVar(&opts.DeletedMessage, "deleted-message", "", `delete confirmation template, with "{id}" for the ID`)
	cmd.Flags().StringVar(&opts.NotFoundMessage, "not-found-message", "", `not-found error template, with "{id}" for the ID`)
	return cmd
}
