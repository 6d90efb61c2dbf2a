package cli

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/BartekS5/revetl/internal/config"
	"github.com/BartekS5/revetl/internal/etl"
	"github.com/BartekS5/revetl/pkg/database"
	"github.com/BartekS5/revetl/pkg/logger"
	"github.com/BartekS5/revetl/pkg/models"
	"github.com/spf13/cobra"
)

func runPipeline(cmd *cobra.Command, opts *Options) error {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}
	delim, err := cfg.DelimiterRune()
	if err != nil {
		return err
	}

	store, err := etl.NewSQLStore(cfg.DBDriver, cfg.DBDSN, cfg.Table)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pipeline := etl.NewPipeline(
		etl.NewCSVReader(cfg.InputPath, delim),
		etl.NewCleaner(policy, log),
		store,
		log,
	)
	pipeline.DryRun = cfg.DryRun

	if cfg.MongoConnString != "" {
		reporter, closeFn := connectReporter(ctx, cfg, log)
		defer closeFn()
		if reporter != nil {
			pipeline.Reporter = reporter
		}
	}

	report, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	printReport(cmd, report)
	return nil
}

// connectReporter is best effort: without MongoDB the run still proceeds.
func connectReporter(ctx context.Context, cfg *config.Config, log *logger.Logger) (etl.Reporter, func()) {
	client, err := database.ConnectMongo(ctx, cfg.MongoConnString)
	if err != nil {
		log.Warnf("run reports disabled: %v", err)
		return nil, func() {}
	}
	return etl.NewMongoReporter(client, cfg.MongoDatabase), func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}
}

func runInspect(cmd *cobra.Command, opts *Options) error {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateStore(); err != nil {
		return err
	}

	store, err := etl.NewSQLStore(cfg.DBDriver, cfg.DBDSN, cfg.Table)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	agg, err := store.Fetch(ctx)
	if err != nil {
		return err
	}

	printAggregate(cmd, agg)

	if opts.Runs > 0 {
		return printRecentRuns(ctx, cmd, cfg, opts.Runs)
	}
	return nil
}

// printRecentRuns lists the latest run reports stored in MongoDB.
func printRecentRuns(ctx context.Context, cmd *cobra.Command, cfg *config.Config, limit int64) error {
	if cfg.MongoConnString == "" {
		return fmt.Errorf("%w: --runs needs MONGO_CONNECTION_STRING", config.ErrInvalidConfig)
	}

	client, err := database.ConnectMongo(ctx, cfg.MongoConnString)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	runs, err := etl.NewMongoReporter(client, cfg.MongoDatabase).Recent(ctx, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run_id\tstarted_at\trows_read\trows_kept\tcountries\tdry_run\n")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%t\n",
			r.RunID, r.StartedAt.Format(time.RFC3339), r.RowsRead, r.RowsKept, len(r.Totals), r.DryRun)
	}
	return tw.Flush()
}

func printReport(cmd *cobra.Command, r *models.RunReport) {
	out := cmd.OutOrStdout()
	mode := "written to " + r.Target
	if r.DryRun {
		mode = "not written (dry run)"
	}
	fmt.Fprintf(out, "Run %s: %d rows read, %d kept, %d countries %s\n",
		r.RunID, r.RowsRead, r.RowsKept, len(r.Totals), mode)

	reasons := make([]string, 0, len(r.Dropped))
	for reason := range r.Dropped {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(out, "  dropped %-20s %d\n", reason, r.Dropped[reason])
	}

	countries := make([]string, 0, len(r.Totals))
	for c := range r.Totals {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	for _, c := range countries {
		fmt.Fprintf(tw, "%s\t%s\t\n", c, r.Totals[c])
	}
	tw.Flush()
}

func printAggregate(cmd *cobra.Command, agg models.CountryAggregate) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "country\ttotal_revenue\t\n")
	for _, c := range agg.Countries() {
		fmt.Fprintf(tw, "%s\t%s\t\n", c, agg[c].StringFixed(etl.CurrencyPlaces))
	}
	tw.Flush()
}
