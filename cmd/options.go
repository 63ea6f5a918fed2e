package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options <template> <field>",
	Short: "Print the effective options of a select field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		if err := selectByID(env.session, args[0]); err != nil {
			return err
		}
		cur, _ := env.session.Current()
		f, ok := cur.FieldByID(args[1])
		if !ok {
			return fmt.Errorf("template %s has no field %q", cur.ID, args[1])
		}
		for _, o := range env.session.Resolver.Resolve(f) {
			fmt.Fprintln(cmd.OutOrStdout(), o)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}
