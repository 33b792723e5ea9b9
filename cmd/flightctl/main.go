package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"flightlo-service/internal/app"
	"flightlo-service/internal/domain/entity"
	"flightlo-service/internal/infrastructure/config"
	"flightlo-service/pkg/logger"
	"flightlo-service/pkg/utils"
)

var (
	queryArg       string
	countryArg     string
	limitArg       int
	originArg      string
	destinationArg string
	airlineArg     string
	dateArg        string
	verboseFlag    bool
)

var rootCmd = &cobra.Command{
	Use:           "flightctl",
	Short:         "Search airports, airlines and flights from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var airportsCmd = &cobra.Command{
	Use:   "airports",
	Short: "List airports matching a query",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, a *app.App) (any, error) {
			return a.Service.ListAirports(ctx, entity.ListQuery{Query: queryArg, Country: countryArg, Limit: limitArg})
		})
	},
}

var airlinesCmd = &cobra.Command{
	Use:   "airlines",
	Short: "List airlines matching a query",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, a *app.App) (any, error) {
			return a.Service.ListAirlines(ctx, entity.ListQuery{Query: queryArg, Country: countryArg, Limit: limitArg})
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search flights between two airports or cities",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := utils.ParseTravelDate(dateArg)
		if err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, a *app.App) (any, error) {
			return a.Service.SearchFlights(ctx, entity.FlightSearchRequest{
				Origin:      originArg,
				Destination: destinationArg,
				Airline:     airlineArg,
				Country:     countryArg,
				Date:        date,
				Limit:       limitArg,
			})
		})
	},
}

var airportCmd = &cobra.Command{
	Use:   "airport CODE",
	Short: "Show airport statistics and departures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, a *app.App) (any, error) {
			return a.Service.AirportInfo(ctx, args[0])
		})
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule AIRLINE",
	Short: "Show an airline's schedule across the main routes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := utils.ParseTravelDate(dateArg)
		if err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, a *app.App) (any, error) {
			return a.Service.AirlineSchedule(ctx, args[0], date)
		})
	},
}

// withService builds the pipeline, runs fn and prints its result as JSON
func withService(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) (any, error)) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	var log logger.Logger = logger.NewNopLogger()
	if verboseFlag {
		log = logger.NewLogger("debug")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.FeedTimeout+30*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	result, err := fn(ctx, a)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logs on stderr")

	for _, c := range []*cobra.Command{airportsCmd, airlinesCmd} {
		c.Flags().StringVarP(&queryArg, "query", "q", "", "Text to match against name, code or city")
		c.Flags().StringVarP(&countryArg, "country", "c", "", "Country filter")
		c.Flags().IntVarP(&limitArg, "limit", "n", 0, "Maximum results")
	}

	searchCmd.Flags().StringVarP(&originArg, "from", "f", "", "Origin airport code, name or city")
	searchCmd.Flags().StringVarP(&destinationArg, "to", "t", "", "Destination airport code, name or city")
	searchCmd.Flags().StringVarP(&airlineArg, "airline", "a", "", "Airline code or name")
	searchCmd.Flags().StringVarP(&countryArg, "country", "c", "", "Country filter")
	searchCmd.Flags().StringVarP(&dateArg, "date", "d", "", "Travel date (YYYY-MM-DD)")
	searchCmd.Flags().IntVarP(&limitArg, "limit", "n", 0, "Maximum results")
	searchCmd.MarkFlagRequired("from")
	searchCmd.MarkFlagRequired("to")

	scheduleCmd.Flags().StringVarP(&dateArg, "date", "d", "", "Schedule date (YYYY-MM-DD)")

	rootCmd.AddCommand(airportsCmd, airlinesCmd, searchCmd, airportCmd, scheduleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
