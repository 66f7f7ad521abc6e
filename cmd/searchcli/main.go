// Command searchcli is the interactive-I/O, pretty-printing, and
// duplicate-report collaborator described in spec.md §1 and §6 — it is not
// part of the core, it only calls the core's public API.
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kestrelsearch/searchserver/internal/corpusfile"
	"github.com/kestrelsearch/searchserver/internal/history"
	"github.com/kestrelsearch/searchserver/internal/metrics"
	"github.com/kestrelsearch/searchserver/internal/searchserver"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.SetPrefix("[searchcli] ")

	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "searchcli",
		Short: "Interactive client for the in-memory TF-IDF search server",
	}

	root.PersistentFlags().String("corpus", "corpus.yaml", "path to the YAML document corpus")
	root.PersistentFlags().Int("shards", 997, "accumulator shard count used during scoring")
	root.PersistentFlags().Int("page-size", searchserver.MaxResultDocumentCount, "maximum results shown per query")
	root.PersistentFlags().String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")

	_ = viper.BindPFlag("corpus", root.PersistentFlags().Lookup("corpus"))
	_ = viper.BindPFlag("shards", root.PersistentFlags().Lookup("shards"))
	_ = viper.BindPFlag("page_size", root.PersistentFlags().Lookup("page-size"))
	_ = viper.BindPFlag("metrics_addr", root.PersistentFlags().Lookup("metrics-addr"))
	viper.SetEnvPrefix("searchcli")
	viper.AutomaticEnv()

	root.AddCommand(newServeCmd())
	root.AddCommand(newDedupeCmd())
	return root
}

func loadServer() (*searchserver.Server, int, error) {
	server, count, err := corpusfile.Load(viper.GetString("corpus"), searchserver.WithShardCount(viper.GetInt("shards")))
	if err != nil {
		return nil, 0, fmt.Errorf("loading corpus: %w", err)
	}
	return server, count, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load a corpus and open an interactive search prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			server, count, err := loadServer()
			if err != nil {
				return err
			}
			log.Printf("Loaded %d documents in %v", count, time.Since(start))

			collector := metrics.New(server)
			if addr := viper.GetString("metrics_addr"); addr != "" {
				go serveMetrics(addr, collector)
			}

			queue := history.New(server)
			return runInteractiveSearch(server, queue, collector, viper.GetInt("page_size"))
		},
	}
}

func newDedupeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicate documents and report their ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			server, _, err := loadServer()
			if err != nil {
				return err
			}
			removed := searchserver.RemoveDuplicates(server, os.Stdout)
			metrics.New(server).ObserveDuplicatesRemoved(len(removed))
			log.Printf("Removed %d duplicate document(s)", len(removed))
			return nil
		},
	}
}

func serveMetrics(addr string, collector *metrics.Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("metrics server stopped: %v", err)
	}
}

func runInteractiveSearch(server *searchserver.Server, queue *history.Queue, collector *metrics.Collector, pageSize int) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".searchcli_history.tmp",
		InterruptPrompt: "^C\n",
		EOFPrompt:       "exit\n",
		HistoryLimit:    100,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("Enter your search query (press Ctrl+C or type 'exit' to quit):")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				fmt.Println("Exiting...")
				return nil
			}
			continue
		}
		if err == io.EOF || strings.TrimSpace(line) == "exit" {
			fmt.Println("Exiting...")
			return nil
		}
		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		queryStart := time.Now()
		results, err := queue.AddFindRequestDefault(query)
		collector.ObserveQuery(err == nil && len(results) > 0, time.Since(queryStart))
		if err != nil {
			fmt.Printf("Search error: %v\n", err)
			continue
		}
		displayResults(server, results, pageSize)
	}
}

func displayResults(server *searchserver.Server, results []searchserver.Result, pageSize int) {
	if len(results) == 0 {
		fmt.Println("No matches found.")
		return
	}
	if pageSize <= 0 {
		pageSize = searchserver.MaxResultDocumentCount
	}

	fmt.Println("Results (sorted by relevance):")
	fmt.Println(strings.Repeat("-", 60))
	for i, r := range results {
		if i >= pageSize {
			fmt.Printf("... %d more result(s) not shown\n", len(results)-pageSize)
			break
		}
		text, _ := server.Text(r.ID)
		fmt.Printf("%d. doc %d  relevance=%.6f  rating=%d\n", i+1, r.ID, r.Relevance, r.Rating)
		if text != "" {
			fmt.Printf("   %s\n", text)
		}
	}
	fmt.Println(strings.Repeat("-", 60))
}
