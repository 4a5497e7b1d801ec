package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/lookout/internal/api"
	"github.com/user/lookout/internal/compact"
	"github.com/user/lookout/internal/stream"
	"github.com/user/lookout/internal/types"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <thread-id>",
	Short: "Follow a thread's event stream",
	Long: `Watch subscribes to a thread's live event stream and prints one line
per event. The connection retries with backoff until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := api.New(cfg.RuntimeURL)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ctrl := stream.New(stream.APISource{Client: client})
		defer ctrl.Stop()
		ctrl.Start(types.ThreadID(args[0]))

		var lastSeq int64
		lastState := stream.Disconnected
		for {
			select {
			case <-ctx.Done():
				return nil
			case u, ok := <-ctrl.Updates():
				if !ok {
					return nil
				}
				if u.Kind == stream.UpdateStatus {
					if state := ctrl.State(); state != lastState {
						lastState = state
						fmt.Fprintf(os.Stdout, "-- %s\n", state)
					}
					continue
				}
				for _, ev := range ctrl.Events() {
					if ev.Seq <= lastSeq {
						continue
					}
					lastSeq = ev.Seq
					fmt.Fprintf(os.Stdout, "%s  %-24s %s\n", ev.Timestamp, ev.Event, compact.Summarize(ev))
				}
			}
		}
	},
}
