package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	params := &struct {
		Host string
		Port int
	}{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(ctx, flags)
			if err != nil {
				return err
			}
			defer a.Close()

			host, port := a.conf.Server.Host, a.conf.Server.Port
			if cmd.Flags().Changed("host") {
				host = params.Host
			}
			if cmd.Flags().Changed("port") {
				port = params.Port
			}
			addr := fmt.Sprintf("%s:%d", host, port)

			server := &http.Server{
				Addr:              addr,
				Handler:           newServerHandler(a.service, a.conf.Store.Driver, a.logger),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(net.Listener) context.Context {
					return ctx
				},
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					a.logger.Warn("failed to shutdown server", "error", err)
				}
			}()

			a.logger.Info("Starting server", "addr", addr, "store", a.conf.Store.Driver, "version", flags.version)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrapf(err, "failed to serve on %s", addr)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.Host, "host", "", "listen host, overrides HOST")
	f.IntVar(&params.Port, "port", 0, "listen port, overrides PORT")

	return cmd
}
