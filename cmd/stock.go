package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"stock-watchlist/internal/dto"
	"stock-watchlist/internal/repository"
	"stock-watchlist/internal/service"

	"github.com/spf13/cobra"
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Manage the watchlist from the command line",
}

var stockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watched stocks with live prices",
	Run: func(cmd *cobra.Command, args []string) {
		withServices(func(ctx context.Context, services *service.Service) {
			stocks, err := services.StockService.GetStocks(ctx, dto.GetStocksParam{IncludePrices: true})
			if err != nil {
				log.Fatalf("Failed to list stocks: %v", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tNAME\tPRICE\tTARGETS\tTAGS")
			for _, stock := range stocks {
				name := ""
				if stock.CompanyName != nil {
					name = *stock.CompanyName
				}
				price := "-"
				if stock.CurrentPrice != nil {
					price = fmt.Sprintf("%.2f", *stock.CurrentPrice)
				}
				tags := make([]string, 0, len(stock.Tags))
				for _, tag := range stock.Tags {
					tags = append(tags, tag.Name)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					stock.Symbol, name, price, len(stock.Targets), strings.Join(tags, ","))
			}
			w.Flush()
		})
	},
}

var (
	addTargetType  string
	addTargetPrice float64
	addTrimPct     float64
	addTags        []string
)

var stockAddCmd = &cobra.Command{
	Use:   "add <symbol>",
	Short: "Add a stock to the watchlist",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(func(ctx context.Context, services *service.Service) {
			req := dto.CreateStockRequest{Symbol: args[0], Tags: addTags}
			if addTargetType != "" {
				target := dto.TargetRequest{
					TargetType:  addTargetType,
					TargetPrice: addTargetPrice,
				}
				if addTrimPct > 0 {
					target.TrimPercentage = &addTrimPct
				}
				req.Targets = []dto.TargetRequest{target}
			}

			stock, err := services.StockService.CreateStock(ctx, req)
			if err != nil {
				log.Fatalf("Failed to add stock: %v", err)
			}

			name := stock.Symbol
			if stock.CompanyName != nil {
				name = fmt.Sprintf("%s (%s)", stock.Symbol, *stock.CompanyName)
			}
			fmt.Printf("Added %s with %d target(s)\n", name, len(stock.Targets))
		})
	},
}

var stockRemoveCmd = &cobra.Command{
	Use:   "remove <symbol>",
	Short: "Remove a stock and everything attached to it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withServices(func(ctx context.Context, services *service.Service) {
			if err := services.StockService.DeleteStock(ctx, args[0]); err != nil {
				log.Fatalf("Failed to remove stock: %v", err)
			}
			fmt.Printf("Removed %s\n", strings.ToUpper(args[0]))
		})
	},
}

// withServices wires the full dependency graph for one-shot CLI commands.
func withServices(fn func(ctx context.Context, services *service.Service)) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	repo := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log)
	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache, appDep.sinks)

	fn(ctx, services)
}

func init() {
	stockAddCmd.Flags().StringVar(&addTargetType, "target-type", "", "initial target type (Buy, Sell, DCA, Trim)")
	stockAddCmd.Flags().Float64Var(&addTargetPrice, "target-price", 0, "initial target price")
	stockAddCmd.Flags().Float64Var(&addTrimPct, "trim-pct", 0, "trim percentage, required for Trim targets")
	stockAddCmd.Flags().StringSliceVar(&addTags, "tags", nil, "tags to attach")

	stockCmd.AddCommand(stockListCmd)
	stockCmd.AddCommand(stockAddCmd)
	stockCmd.AddCommand(stockRemoveCmd)
}
