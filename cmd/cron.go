package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"giftshop.GO/cron"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(c *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		a, err := loaded(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		jobs := cron.All(a.CronJobs())
		if jobName != "" {
			name := strings.ToLower(jobName)
			j, ok := jobs[name]
			if !ok {
				return fmt.Errorf("unknown job: %s (available: %s)", jobName, strings.Join(cron.Names(jobs), ", "))
			}
			fmt.Fprintf(c.OutOrStdout(), "Running cron job: %s\n", name)
			j.Run(args...)
			return nil
		}

		fmt.Fprintln(c.OutOrStdout(), "Starting cron scheduler...")
		s, err := cron.StartCron(a.CronJobs(), a.Log)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.OutOrStdout(), "Cron scheduler started. Press Ctrl+C to exit.")
		<-ctx.Done()
		<-s.Stop().Done()
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
}
