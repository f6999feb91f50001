package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go-akashdhara/internal/catalog"
	"go-akashdhara/internal/clients"
	"go-akashdhara/internal/config"
	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/missions"
	"go-akashdhara/internal/observability"
	"go-akashdhara/internal/services"

	"github.com/spf13/cobra"
)

var eventsArgs struct {
	date string
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print the space-history events for a date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		date, err := dateOrToday(eventsArgs.date)
		if err != nil {
			return err
		}
		kb, err := catalog.Load()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), services.HistoricalEvents(kb, domain.MonthDay(date), date.Year()))
	},
}

var missionsArgs struct {
	countries []string
	types     []string
	statuses  []string
	search    string
	start     int
	end       int
	sort      string
	order     string
}

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "List catalog missions with filters and ordering",
	RunE: func(cmd *cobra.Command, _ []string) error {
		q, err := missions.ParseQuery(missions.Params{
			Search:    missionsArgs.search,
			Countries: missionsArgs.countries,
			Types:     missionsArgs.types,
			Statuses:  missionsArgs.statuses,
			StartYear: missionsArgs.start,
			EndYear:   missionsArgs.end,
			Sort:      missionsArgs.sort,
			Order:     missionsArgs.order,
		})
		if err != nil {
			return err
		}
		kb, err := catalog.Load()
		if err != nil {
			return err
		}

		list := missions.Apply(kb.Missions(), q)
		out := cmd.OutOrStdout()
		for _, m := range list {
			fmt.Fprintf(out, "%-20s %-28s %-14s %-12s %-12s %s\n", m.ID, m.Name, m.Country, m.MissionType, m.Status, m.LaunchDate)
		}
		st := missions.ComputeStats(list)
		fmt.Fprintf(out, "\n%d missions, %d successful, %d ongoing, %d countries\n", st.Total, st.Successful, st.Ongoing, st.Countries)
		return nil
	},
}

var apodArgs struct {
	date string
}

var apodCmd = &cobra.Command{
	Use:   "apod",
	Short: "Fetch NASA's Astronomy Picture of the Day",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.LoadConfig()
		observability.Setup(cmd.ErrOrStderr(), cfg.LogLevel, "text")

		date, err := dateOrToday(apodArgs.date)
		if err != nil {
			return err
		}
		kb, err := catalog.Load()
		if err != nil {
			return err
		}

		httpClient := clients.NewHTTPClient(cfg.HTTPTimeout)
		space := services.NewSpaceService(
			clients.NewNasaClient(httpClient, cfg.Nasa.APODURL, cfg.Nasa.APIKey),
			clients.NewLaunchLibraryClient(httpClient, cfg.LaunchURL),
			kb,
		)
		image, err := space.ResolveDailyImage(cmd.Context(), date)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), image)
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsArgs.date, "date", "", "date as YYYY-MM-DD (default today)")

	f := missionsCmd.Flags()
	f.StringSliceVar(&missionsArgs.countries, "country", nil, "filter by country (repeatable)")
	f.StringSliceVar(&missionsArgs.types, "type", nil, "filter by mission type (repeatable)")
	f.StringSliceVar(&missionsArgs.statuses, "status", nil, "filter by status (repeatable)")
	f.StringVar(&missionsArgs.search, "search", "", "case-insensitive text search")
	f.IntVar(&missionsArgs.start, "start", 0, "earliest launch year")
	f.IntVar(&missionsArgs.end, "end", 0, "latest launch year")
	f.StringVar(&missionsArgs.sort, "sort", "date", "sort key: date, name or agency")
	f.StringVar(&missionsArgs.order, "order", "desc", "sort order: asc or desc")

	apodCmd.Flags().StringVar(&apodArgs.date, "date", "", "date as YYYY-MM-DD (default today)")
}

func dateOrToday(value string) (time.Time, error) {
	if value == "" {
		return domain.StartOfDay(time.Now()), nil
	}
	return domain.ParseDate(value, time.Local)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
