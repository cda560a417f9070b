package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	// Imported for their event definitions, which register topics at init.
	_ "github.com/Pranav2188/water-pollution-quirklab/internal/analytics"
	_ "github.com/Pranav2188/water-pollution-quirklab/internal/modules/pollution/events"
	"github.com/Pranav2188/water-pollution-quirklab/internal/topicmgr"
	"github.com/Pranav2188/water-pollution-quirklab/internal/websocket"
)

// topicDisplay represents a topic for JSON output.
type topicDisplay struct {
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	Module      string `json:"module"`
	Description string `json:"description"`
}

func newTopicsCmd() *cobra.Command {
	var (
		format string
		module string
	)

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List the registered pub/sub topics",
		Long: `List the framework and module topics used for event-driven communication.

Examples:
  quirkctl topics                 # table
  quirkctl topics --module chart  # one module
  quirkctl topics --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := topicmgr.Default()
			if err := websocket.RegisterTopicsWithManager(manager); err != nil {
				return fmt.Errorf("register websocket topics: %w", err)
			}

			var list []topicmgr.Topic
			if module != "" {
				list = manager.ListByModule(module)
			} else {
				list = manager.List()
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				displays := make([]topicDisplay, len(list))
				for i, t := range list {
					displays[i] = topicDisplay{Name: t.Name(), Scope: string(t.Scope()), Module: t.Module(), Description: t.Description()}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Topics []topicDisplay `json:"topics"`
					Count  int            `json:"count"`
				}{displays, len(displays)})
			case "table":
				if len(list) == 0 {
					fmt.Fprintln(out, "No topics found")
					return nil
				}
				rows := make([][]string, len(list))
				for i, t := range list {
					mod := t.Module()
					if mod == "" {
						mod = "-"
					}
					rows[i] = []string{t.Name(), string(t.Scope()), mod, t.Description()}
				}
				renderTable(out, []string{"NAME", "SCOPE", "MODULE", "DESCRIPTION"}, rows, 4)
				if module == "" {
					stats := manager.Stats()
					fmt.Fprintf(out, "\n%d topics (%d framework, %d module)\n",
						stats.TotalTopics, stats.FrameworkTopics, stats.ModuleTopics)
				}
				return nil
			default:
				return fmt.Errorf("unsupported output format %q, use table or json", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	cmd.Flags().StringVarP(&module, "module", "m", "", "Filter topics by module name")
	return cmd
}
