package cmd

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "landomo",
	Short: "QuintoAndar listing discovery and enrichment pipeline",
	Long: `landomo discovers listing IDs on QuintoAndar by walking viewport
queries over a curated city list or a raw coordinate grid, deduplicates
them into a durable frontier, then enriches every ID with a pool of
workers and pushes the normalized records to the configured sink.

Jobs are resumable: all the durable state lives under jobs/<job>.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize config here, after cobra has parsed command line flags
		if err := config.InitConfig(); err != nil {
			fmt.Printf("error initializing config: %s", err)
			os.Exit(1)
		}

		cfg = config.Get()

		initLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func initLogging() {
	if cfg.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
}

// Run the root command
func Run() error {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String("config-file", "", "config file (default is $HOME/landomo-config.yaml)")
	rootCmd.PersistentFlags().String("job", "", "Job name to use, will determine the path for the persistent queue, seencheck database and frontier dump.")
	rootCmd.PersistentFlags().Bool("in-memory", false, "Run the whole pipeline in memory, the job will not be resumable.")

	// Discovery flags
	rootCmd.PersistentFlags().StringSlice("cities", []string{}, "Only discover the given cities, defaults to the whole curated list.")
	rootCmd.PersistentFlags().Int("page-size", 100, "Number of listing IDs to request per search page.")
	rootCmd.PersistentFlags().Int("discovery-parallelism", 4, "Number of regions to discover concurrently.")
	rootCmd.PersistentFlags().Int("rotate-pages-every", 10, "Rotate the outbound fingerprint every N search pages.")

	// Grid flags
	rootCmd.PersistentFlags().Bool("grid", false, "Discover over a raw coordinate grid instead of the curated city list.")
	rootCmd.PersistentFlags().Float64("grid-north", 5.27, "Northern latitude of the grid's bounding box.")
	rootCmd.PersistentFlags().Float64("grid-south", -33.75, "Southern latitude of the grid's bounding box.")
	rootCmd.PersistentFlags().Float64("grid-east", -34.79, "Eastern longitude of the grid's bounding box.")
	rootCmd.PersistentFlags().Float64("grid-west", -73.99, "Western longitude of the grid's bounding box.")
	rootCmd.PersistentFlags().Float64("grid-cell-size", 0.1, "Grid cell size in degrees.")

	// Enrichment flags
	rootCmd.PersistentFlags().Int("workers", 1, "Number of concurrent workers to run.")
	rootCmd.PersistentFlags().Int("max-retry", 3, "Number of retry if error happen when executing HTTP request.")
	rootCmd.PersistentFlags().Duration("backoff-base", time.Second, "Base delay of the exponential backoff between retries.")
	rootCmd.PersistentFlags().Duration("rate-limit", time.Second, "Base delay between outbound requests, jittered per request.")
	rootCmd.PersistentFlags().Int("rotate-fetch-every", 10, "Rotate a worker's fingerprint every N successful detail fetches.")
	rootCmd.PersistentFlags().Int("http-timeout", 30, "Number of seconds to wait before timing out a request.")
	rootCmd.PersistentFlags().String("api-base-url", "", "Override the portal API base URL.")

	// Sink flags
	rootCmd.PersistentFlags().String("db-dsn", "", "Postgres DSN to ingest normalized records into, records are discarded when empty.")

	// API and metrics flags
	rootCmd.PersistentFlags().Bool("api", false, "Expose a JSON status API.")
	rootCmd.PersistentFlags().Int("api-port", 9443, "Port to listen on for the API.")
	rootCmd.PersistentFlags().Bool("prometheus", false, "Export metrics in Prometheus format, using this setting imply --api.")
	rootCmd.PersistentFlags().String("prometheus-prefix", "landomo:", "String used as a prefix for the exported Prometheus metrics.")

	// Logging flags
	rootCmd.PersistentFlags().Bool("live-stats", false, "")
	rootCmd.PersistentFlags().Bool("json", false, "Output logs in JSON")
	rootCmd.PersistentFlags().Bool("debug", false, "")

	// Bind flags to viper
	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(discoverCmd())
	rootCmd.AddCommand(enrichCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd.Execute()
}
