package cmd

import (
	"errors"
	"fmt"
	"strings"

	"template-composer/internal/compose"
	"template-composer/internal/contact"
	"template-composer/internal/host"
	"template-composer/internal/model"

	"github.com/spf13/cobra"
)

var composeFlags struct {
	set      []string
	to       []string
	draft    string
	dryRun   bool
	newDraft bool
}

// parseValues turns repeated k=v flags into a value map. Only keys the user
// passed end up in the map.
func parseValues(pairs []string) (model.ValueMap, error) {
	values := model.ValueMap{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q, want key=value", p)
		}
		values[k] = v
	}
	return values, nil
}

func recipients(addrs []string) []contact.Recipient {
	out := make([]contact.Recipient, 0, len(addrs))
	for _, a := range addrs {
		if id, ok := strings.CutPrefix(a, "id:"); ok {
			out = append(out, contact.Recipient{ContactID: id})
			continue
		}
		out = append(out, contact.Recipient{Address: a})
	}
	return out
}

var composeCmd = &cobra.Command{
	Use:   "compose <template>",
	Short: "Render a template into the compose draft",
	Long: "Render a template with field values and write subject, body and plain-text body " +
		"into the draft file. Values come from --set, then the first recipient's contact data, " +
		"then field defaults.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := parseValues(composeFlags.set)
		if err != nil {
			return err
		}
		c, draft, closeStore, err := openComposer(cmd, composeFlags.draft)
		if err != nil {
			return err
		}
		defer closeStore()
		ctx := cmd.Context()

		tpls, st := c.Load(ctx)
		if st.Failed {
			return report(cmd, st)
		}
		var tpl *model.Template
		if i := tpls.IndexOf(args[0]); i >= 0 {
			tpl = &tpls[i]
		}

		if composeFlags.dryRun {
			if tpl == nil {
				return report(cmd, host.Status{Message: host.StatusNoTemplate, Failed: true})
			}
			to := recipients(composeFlags.to)
			if len(to) == 0 {
				if d, err := draft.GetComposeDetails(ctx); err == nil {
					to = d.To
				} else if !errors.Is(err, compose.ErrNoDraft) {
					return err
				}
			}
			r := c.Preview(ctx, *tpl, to, user)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subject: %s\n\n%s\n", r.Subject, r.PlainTextBody)
			return nil
		}

		if composeFlags.newDraft {
			if err := draft.Create(ctx, recipients(composeFlags.to)); err != nil {
				return err
			}
		}
		_, st = c.Apply(ctx, tpl, user)
		if st.Failed {
			return report(cmd, st)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", st.Message, draft.Path())
		return nil
	},
}

func init() {
	f := composeCmd.Flags()
	f.StringArrayVar(&composeFlags.set, "set", nil, "field value as key=value (repeatable)")
	f.StringArrayVar(&composeFlags.to, "to", nil, `recipient "Name <email>", email, or id:<contact id> (repeatable)`)
	f.StringVar(&composeFlags.draft, "draft", "", "draft file (default: compose.draft_path)")
	f.BoolVar(&composeFlags.dryRun, "dry-run", false, "print the rendered subject and plain-text body only")
	f.BoolVar(&composeFlags.newDraft, "new", false, "start a new draft addressed to --to before applying")
	rootCmd.AddCommand(composeCmd)
}
