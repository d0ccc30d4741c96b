package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stock-watchlist/internal/repository"
	"stock-watchlist/internal/service"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one alert evaluation cycle and exit",
	Run:   Check,
}

func Check(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	repo := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log)
	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache, appDep.sinks)

	result, err := services.SchedulerService.RunOnce(ctx)
	if err != nil {
		log.Fatalf("Evaluation cycle failed: %v", err)
	}

	fmt.Printf("Checked %d stocks (%d targets) in %s\n",
		result.StocksChecked, result.TargetsChecked, result.Duration)
	if len(result.Alerts) == 0 {
		fmt.Println("No targets met.")
		return
	}

	fmt.Printf("%d target(s) met, notified=%v\n\n", len(result.Alerts), result.Notified)
	for _, alert := range result.Alerts {
		fmt.Println(alert.Message())
	}
}
