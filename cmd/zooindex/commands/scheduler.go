package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/runchengxie/a-share-animal-index/internal/scheduler"
	"github.com/runchengxie/a-share-animal-index/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the daily index job on a cron schedule",
	Long: `Scheduler runs the daily index job on SCHEDULE_CRON in the market timezone.

Available subcommands:
  start  - Start the scheduler (blocks until Ctrl+C)
  list   - List jobs and their next run
  run    - Run the daily job once immediately`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler",
	RunE:  runScheduler,
}

var schedulerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled jobs",
	RunE:  listJobs,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily job once",
	RunE:  runJobOnce,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// initScheduler builds the scheduler with the daily index job registered
func initScheduler(cmd *cobra.Command, a *app) (*scheduler.Scheduler, *jobs.DailyIndexJob, func(), error) {
	orch, cleanup, err := a.orchestrator(cmd.Context())
	if err != nil {
		return nil, nil, nil, err
	}

	sched := scheduler.New(a.log, a.cfg.Location(), scheduler.WithRetry(3, 5*time.Minute))
	job := jobs.NewDailyIndexJob(orch, a.cfg.Schedule.Cron, a.cfg.Location(), a.log)
	if err := sched.AddJob(job); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("add job: %w", err)
	}
	return sched, job, cleanup, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()
	cmd.SetContext(ctx)

	sched, job, cleanup, err := initScheduler(cmd, a)
	if err != nil {
		return err
	}
	defer cleanup()

	sched.Start()
	next, _ := sched.NextRun(job.Name())
	PrintHeader("Scheduler Started",
		fmt.Sprintf("Job: %s (%s)", job.Name(), job.Schedule()),
		fmt.Sprintf("Next run: %s", next.Format(time.RFC3339)),
		"Press Ctrl+C to stop",
	)

	<-ctx.Done()

	fmt.Println()
	PrintInfo("Stopping scheduler...")
	sched.Stop()
	printJobStats(sched)
	PrintSuccess("Scheduler stopped")
	return nil
}

// printJobStats prints run counts collected during this session
func printJobStats(sched *scheduler.Scheduler) {
	widths := []int{15, 6, 8, 8, 20}
	PrintTableHeader([]string{"Job", "Runs", "Success", "Failed", "Last Run"}, widths)
	for _, name := range sched.GetAllJobs() {
		stats := sched.GetJobStats()[name]
		lastRun := "-"
		if stats.LastRun != nil {
			lastRun = stats.LastRun.Format("2006-01-02 15:04:05")
		}
		PrintTableRow([]string{
			name,
			fmt.Sprint(stats.TotalRuns),
			fmt.Sprint(stats.SuccessCount),
			fmt.Sprint(stats.FailureCount),
			lastRun,
		}, widths)
	}
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	sched, _, cleanup, err := initScheduler(cmd, a)
	if err != nil {
		return err
	}
	defer cleanup()

	PrintHeader("Scheduled Jobs")
	widths := []int{15, 20, 30}
	PrintTableHeader([]string{"Job", "Schedule", "Next Run"}, widths)
	for _, name := range sched.GetAllJobs() {
		next, err := sched.NextRun(name)
		nextStr := "-"
		if err == nil && !next.IsZero() {
			nextStr = next.Format("2006-01-02 15:04:05 MST")
		}
		PrintTableRow([]string{name, a.cfg.Schedule.Cron, nextStr}, widths)
	}
	return nil
}

func runJobOnce(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	_, job, cleanup, err := initScheduler(cmd, a)
	if err != nil {
		return err
	}
	defer cleanup()

	PrintInfo(fmt.Sprintf("Running %s...", job.Name()))
	if err := job.Run(ctx); err != nil {
		return err
	}
	PrintSuccess(fmt.Sprintf("%s completed", job.Name()))
	return nil
}
