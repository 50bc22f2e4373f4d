package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gareport/internal/schema"
)

var semanticTypes = []schema.SemanticType{
	schema.Integer, schema.Float, schema.Date, schema.Duration, schema.String,
}

func newFieldsCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List known metrics and dimensions with their value types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := schema.SemanticType(typeName)
			if t != "" && !validSemanticType(t) {
				return fmt.Errorf("unknown type %q: use integer, float, date, duration or string", typeName)
			}

			reg := schema.Default()
			names := reg.Fields(t)
			if getOutputFormat(cmd) == outputJSON {
				out := make(map[string]string, len(names))
				for _, n := range names {
					out[n] = string(reg.TypeOf(n))
				}
				return PrintJSON(cmd.OutOrStdout(), out)
			}
			rows := make([][]string, len(names))
			for i, n := range names {
				rows[i] = []string{n, string(reg.TypeOf(n))}
			}
			PrintTable(cmd.OutOrStdout(), []string{"field", "type"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Only list fields of this type")
	return cmd
}

func validSemanticType(t schema.SemanticType) bool {
	for _, s := range semanticTypes {
		if s == t {
			return true
		}
	}
	return false
}
