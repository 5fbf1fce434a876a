package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/avencia/stageline/pkg/ability"
	"github.com/avencia/stageline/pkg/capability"
	"github.com/avencia/stageline/pkg/capmock"
	"github.com/avencia/stageline/pkg/config"
	"github.com/avencia/stageline/pkg/decision"
	"github.com/avencia/stageline/pkg/engine"
	"github.com/avencia/stageline/pkg/graph"
	"github.com/avencia/stageline/pkg/responder"
	"github.com/avencia/stageline/pkg/runstore"
	"github.com/avencia/stageline/pkg/state"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "stageline",
		Short: "Staged support-run orchestration engine",
		Long: `Stageline drives a fixed sequence of processing stages over one shared
	run state, dispatching each stage's abilities to handlers backed by
	external capability services.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(graphCmd())
	rootCmd.AddCommand(mockCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		inputFile string
		graphFile string
		answer    string
		useMock   bool
		showLog   bool
		in        state.Input
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one run through the stage graph",
		Long: `Runs one input payload through all stages and prints the final payload.

	Input comes from --input (a JSON file, or - for stdin) or from the
	individual field flags. With --mock the capability services are
	simulated in-process instead of being called over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if inputFile != "" {
				loaded, err := readInput(inputFile)
				if err != nil {
					return err
				}
				in = loaded
			}
			if in.Query == "" {
				return fmt.Errorf("input query is required")
			}

			var g *graph.Graph
			if graphFile != "" {
				g, err = graph.LoadManifest(graphFile)
				if err != nil {
					return fmt.Errorf("failed to load graph manifest: %w", err)
				}
			}

			services, err := buildServices(cfg, useMock)
			if err != nil {
				return err
			}

			store, err := buildStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			registry := ability.NewRegistry()
			suite := ability.NewSuite(services, decision.NewPolicy(), buildResponder(cfg))
			suite.RegisterAll(registry)

			eng, err := engine.New(engine.Options{
				Graph:     g,
				Registry:  registry,
				Persister: store,
				Logger:    log.Printf,
			})
			if err != nil {
				return err
			}

			result, err := eng.Run(cmd.Context(), in, engine.RunOptions{SimulatedAnswer: answer})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result.Final, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			if showLog {
				fmt.Fprintln(os.Stderr, "\nrun log:")
				for _, line := range result.Log {
					fmt.Fprintln(os.Stderr, "  "+line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input", "", "JSON input payload file (- for stdin)")
	cmd.Flags().StringVar(&graphFile, "graph", "", "graph manifest file (default: builtin support graph)")
	cmd.Flags().StringVar(&answer, "answer", "", "simulated human answer for the WAIT stage")
	cmd.Flags().BoolVar(&useMock, "mock", false, "simulate capability services in-process")
	cmd.Flags().BoolVar(&showLog, "show-log", false, "print the run log to stderr")
	cmd.Flags().StringVar(&in.Query, "query", "", "customer query text")
	cmd.Flags().StringVar(&in.Priority, "priority", "", "ticket priority")
	cmd.Flags().StringVar(&in.TicketID, "ticket", "", "ticket id")
	cmd.Flags().StringVar(&in.CustomerName, "name", "", "customer name")
	cmd.Flags().StringVar(&in.Email, "email", "", "customer email")

	return cmd
}

func graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [manifest]",
		Short: "Validate and show a stage graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := graph.Default()
			if len(args) == 1 {
				loaded, err := graph.LoadManifest(args[0])
				if err != nil {
					return fmt.Errorf("failed to load graph manifest: %w", err)
				}
				g = loaded
			}
			if err := g.Validate(); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "STAGE\tMODE\tABILITY\tGROUP\n")
			for _, stage := range g.Stages {
				for i, ref := range stage.Abilities {
					name := ""
					mode := ""
					if i == 0 {
						name = stage.Name
						mode = string(stage.Mode)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, mode, ref.Name, ref.Group)
				}
			}
			return w.Flush()
		},
	}
	return cmd
}

func mockCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve the simulated capability services over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Printf("serving mock capability services on %s", addr)
			return http.ListenAndServe(addr, capmock.NewRouter())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8091", "listen address")
	return cmd
}

func readInput(path string) (state.Input, error) {
	var in state.Input
	var data []byte
	var err error

	if path == "-" {
		data, err = os.ReadFile("/dev/stdin")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return in, fmt.Errorf("read input: %w", err)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse input: %w", err)
	}
	return in, nil
}

// buildServices wires one client per configured service group, either the
// retrying HTTP client or the in-process simulation.
func buildServices(cfg *config.Config, useMock bool) (*capability.Set, error) {
	services := capability.NewSet()
	for name, group := range cfg.Groups {
		if useMock {
			client, err := capmock.NewClient(name)
			if err != nil {
				return nil, err
			}
			services.Add(name, client)
			continue
		}
		services.Add(name, capability.NewHTTPClient(name, group.Endpoint, group.Timeout(), cfg.RetryConfig()))
	}
	return services, nil
}

func buildStore(cfg *config.Config) (runstore.Store, error) {
	if cfg.Store.Driver == "sqlite" {
		return runstore.NewSQLiteStore(cfg.Store.Path)
	}
	return runstore.NewMemoryStore(), nil
}

func buildResponder(cfg *config.Config) responder.Responder {
	switch cfg.Responder.Provider {
	case "anthropic":
		if r, err := responder.NewAnthropicResponder(cfg.AnthropicAPIKey, cfg.Responder.Model); err == nil {
			return r
		}
	case "openai":
		if r, err := responder.NewOpenAIResponder(cfg.OpenAIAPIKey, cfg.Responder.Model); err == nil {
			return r
		}
	case "google":
		if r, err := responder.NewGoogleResponder(cfg.GoogleAPIKey, cfg.Responder.Model); err == nil {
			return r
		}
	}
	return responder.NewTemplateResponder()
}
