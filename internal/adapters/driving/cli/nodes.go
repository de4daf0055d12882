package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var nodesTypeFlag string

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Inspect registered nodes",
}

var nodesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered nodes",
	Long: `Lists the nodes held by the registry. Use --type to show only one
node type, for example oceAsset or File.`,
	Args: cobra.NoArgs,
	RunE: runNodesList,
}

func init() {
	nodesListCmd.Flags().StringVarP(&nodesTypeFlag, "type", "t", "", "only list nodes of this type")
	nodesCmd.AddCommand(nodesListCmd)
	rootCmd.AddCommand(nodesCmd)
}

func runNodesList(cmd *cobra.Command, _ []string) error {
	app, err := appFactory(appOptions{ConfigPath: configFlag})
	if err != nil {
		return err
	}
	defer app.Close()

	nodes, err := app.Registry.ListNodes(cmd.Context(), nodesTypeFlag)
	if err != nil {
		return fmt.Errorf("list nodes: %w", err)
	}
	if len(nodes) == 0 {
		cmd.Println("No nodes registered.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tNAME\tCHILDREN\tPARENT")
	for _, n := range nodes {
		name, _ := n.Attributes["name"].(string)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", n.ID, n.Type, name, len(n.Children), n.Parent)
	}
	return w.Flush()
}
