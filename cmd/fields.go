package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"template-composer/internal/model"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fieldsCmd groups field editing subcommands.
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Edit the fields of a template",
}

var fieldFlags struct {
	id, label, typ, placeholder, dynamic string
	required                             bool
	options                              []string
}

// parseDynamic accepts "months" or a YAML/JSON object such as
// {type: months, count: 6, step: 1, format: shortMonthYear, locale: pl}.
func parseDynamic(s string) (model.DynamicOptions, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.DynamicOptions{}, nil
	}
	var raw any
	if err := yaml.Unmarshal([]byte(s), &raw); err != nil {
		return model.DynamicOptions{}, fmt.Errorf("parse --dynamic: %w", err)
	}
	return model.DecodeDynamicOptions(raw), nil
}

var fieldsAddCmd = &cobra.Command{
	Use:   "add <template>",
	Short: "Append a field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dyn, err := parseDynamic(fieldFlags.dynamic)
		if err != nil {
			return err
		}
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		s := env.session
		if err := selectByID(s, args[0]); err != nil {
			return err
		}
		if err := s.AddField(); err != nil {
			return err
		}
		cur, _ := s.Current()
		i := len(cur.Fields) - 1
		if err := s.SetFieldType(i, model.ParseFieldType(fieldFlags.typ)); err != nil {
			return err
		}
		err = s.UpdateField(i, func(f *model.Field) {
			f.ID = strings.TrimSpace(fieldFlags.id)
			f.Label = fieldFlags.label
			f.Required = fieldFlags.required
			f.Placeholder = fieldFlags.placeholder
			if f.Select != nil {
				f.Select.Static = fieldFlags.options
				f.Select.Dynamic = dyn
			}
		})
		if err != nil {
			return err
		}
		printWarnings(cmd, s)
		return report(cmd, env.editor.Save(cmd.Context(), s))
	},
}

func fieldIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("field index %q: %w", s, err)
	}
	return i, nil
}

var fieldsRemoveCmd = &cobra.Command{
	Use:   "remove <template> <index>",
	Short: "Remove the field at index (0-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := fieldIndex(args[1])
		if err != nil {
			return err
		}
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		if err := selectByID(env.session, args[0]); err != nil {
			return err
		}
		if err := env.session.RemoveField(i); err != nil {
			return err
		}
		printWarnings(cmd, env.session)
		return report(cmd, env.editor.Save(cmd.Context(), env.session))
	},
}

var fieldsTypeCmd = &cobra.Command{
	Use:   "type <template> <index> <text|select>",
	Short: "Change a field's type; leaving select drops its options",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := fieldIndex(args[1])
		if err != nil {
			return err
		}
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		if err := selectByID(env.session, args[0]); err != nil {
			return err
		}
		if err := env.session.SetFieldType(i, model.ParseFieldType(args[2])); err != nil {
			return err
		}
		printWarnings(cmd, env.session)
		return report(cmd, env.editor.Save(cmd.Context(), env.session))
	},
}

var fieldsListCmd = &cobra.Command{
	Use:   "list <template>",
	Short: "List the fields of a template with their effective options",
	Args:  cobra.ExactArgs(1),
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
		out := cmd.OutOrStdout()
		for i, f := range cur.Fields {
			req := ""
			if f.Required {
				req = " (required)"
			}
			fmt.Fprintf(out, "%d  %s  %s  %s%s\n", i, f.ID, f.Type, f.DisplayLabel(), req)
			if f.Type == model.FieldSelect {
				for _, o := range env.session.Resolver.Resolve(f) {
					fmt.Fprintf(out, "     - %s\n", o)
				}
			}
		}
		return nil
	},
}

func init() {
	f := fieldsAddCmd.Flags()
	f.StringVar(&fieldFlags.id, "id", "", "field id (also its placeholder name)")
	f.StringVar(&fieldFlags.label, "label", "", "display label")
	f.StringVar(&fieldFlags.typ, "type", "text", "text or select")
	f.BoolVar(&fieldFlags.required, "required", false, "must be filled before applying")
	f.StringVar(&fieldFlags.placeholder, "placeholder", "", "input hint")
	f.StringSliceVar(&fieldFlags.options, "options", nil, "static select options, comma separated")
	f.StringVar(&fieldFlags.dynamic, "dynamic", "", `computed options: "months" or a YAML/JSON config`)

	fieldsCmd.AddCommand(fieldsAddCmd, fieldsRemoveCmd, fieldsTypeCmd, fieldsListCmd)
	rootCmd.AddCommand(fieldsCmd)
}
