package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"template-composer/internal/host"
	"template-composer/internal/model"
	"template-composer/internal/session"
	"template-composer/internal/templatefile"

	"github.com/spf13/cobra"
)

// templatesCmd groups collection maintenance subcommands.
var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"tpl"},
	Short:   "Manage the stored template collection",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tID\tNAME\tFIELDS")
		for i, t := range env.session.Templates() {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, t.ID, t.DisplayName(i), len(t.Fields))
		}
		return tw.Flush()
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a template as Markdown with frontmatter",
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
		out, err := templatefile.Render(cur)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var templatesLintCmd = &cobra.Command{
	Use:   "lint [id]",
	Short: "Report advisory warnings for one or all templates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		s := env.session
		var indexes []int
		if len(args) == 1 {
			i := s.Find(args[0])
			if i < 0 {
				return fmt.Errorf("template %q not found", args[0])
			}
			indexes = []int{i}
		} else {
			for i := 0; i < s.Len(); i++ {
				indexes = append(indexes, i)
			}
		}
		total := 0
		for _, i := range indexes {
			if err := s.Select(i, session.Always); err != nil {
				return err
			}
			cur, _ := s.Current()
			for _, w := range s.Diagnostics() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", cur.DisplayName(i), w)
				total++
			}
		}
		if total == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No warnings.")
		}
		return nil
	},
}

var templatesImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the collection from JSON/YAML, or add one Markdown template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		path := args[0]
		var st host.Status
		if ext := strings.ToLower(filepath.Ext(path)); ext == ".md" || ext == ".markdown" {
			st = env.editor.ImportFile(env.session, path)
		} else {
			data, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			st = env.editor.ApplyImport(env.session, data)
		}
		if err := report(cmd, st); err != nil {
			return err
		}
		return report(cmd, env.editor.Save(cmd.Context(), env.session))
	},
}

var (
	exportFormat    string
	exportOut       string
	exportClipboard bool
)

var templatesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collection as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		if exportClipboard {
			return report(cmd, env.editor.Copy(cmd.Context(), env.session))
		}
		f, err := host.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		data, err := env.editor.Export(env.session, f)
		if err != nil {
			return err
		}
		if exportOut == "" || exportOut == "-" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(exportOut, append(data, '\n'), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d templates to %s\n", env.session.Len(), exportOut)
		return nil
	},
}

var assumeYes bool

var templatesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the stored collection with the built-in templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		if !confirmer(cmd, assumeYes)("Replace all templates with the built-in set?") {
			return session.ErrDeclined
		}
		return report(cmd, env.editor.Reset(cmd.Context(), env.session))
	},
}

var templatesInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Store the built-in templates if none are stored yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		return report(cmd, env.editor.Install(cmd.Context()))
	},
}

var tplFlags struct {
	id, name, subject, body, bodyFile string
}

func addTemplateFlags(c *cobra.Command) {
	c.Flags().StringVar(&tplFlags.id, "id", "", "template id")
	c.Flags().StringVar(&tplFlags.name, "name", "", "display name")
	c.Flags().StringVar(&tplFlags.subject, "subject", "", "subject line")
	c.Flags().StringVar(&tplFlags.body, "body", "", "body markup")
	c.Flags().StringVar(&tplFlags.bodyFile, "body-file", "", "read body markup from file")
}

// applyTemplateFlags copies the flags the user actually set onto the draft.
func applyTemplateFlags(cmd *cobra.Command, s *session.Session) error {
	body := tplFlags.body
	bodySet := cmd.Flags().Changed("body")
	if tplFlags.bodyFile != "" {
		b, err := os.ReadFile(tplFlags.bodyFile)
		if err != nil {
			return err
		}
		body, bodySet = strings.TrimRight(string(b), "\r\n"), true
	}
	if cmd.Flags().Changed("id") {
		if err := checkIDFree(s, tplFlags.id); err != nil {
			return err
		}
	}
	return s.Update(func(t *model.Template) {
		if cmd.Flags().Changed("id") {
			t.ID = tplFlags.id
		}
		if cmd.Flags().Changed("name") {
			t.Name = tplFlags.name
		}
		if cmd.Flags().Changed("subject") {
			t.Subject = tplFlags.subject
		}
		if bodySet {
			t.Body = body
		}
	})
}

var templatesNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a template (subject and body are required to save)",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		if _, err := env.session.NewTemplate(session.Always); err != nil {
			return err
		}
		if err := applyTemplateFlags(cmd, env.session); err != nil {
			return err
		}
		printWarnings(cmd, env.session)
		if err := report(cmd, env.editor.Save(cmd.Context(), env.session)); err != nil {
			return err
		}
		cur, _ := env.session.Current()
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", cur.ID)
		return nil
	},
}

var templatesSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Update template attributes",
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
		if err := applyTemplateFlags(cmd, env.session); err != nil {
			return err
		}
		printWarnings(cmd, env.session)
		return report(cmd, env.editor.Save(cmd.Context(), env.session))
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a template",
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
		if err := env.session.DeleteCurrent(confirmer(cmd, assumeYes)); err != nil {
			return err
		}
		return report(cmd, env.editor.Save(cmd.Context(), env.session))
	},
}

var templatesMoveCmd = &cobra.Command{
	Use:   "move <id> <up|down>",
	Short: "Move a template one position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir int
		switch strings.ToLower(args[1]) {
		case "up":
			dir = -1
		case "down":
			dir = 1
		default:
			return errors.New("direction must be up or down")
		}
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		i := env.session.Find(args[0])
		if i < 0 {
			return fmt.Errorf("template %q not found", args[0])
		}
		if err := env.session.Move(i, dir, session.Always); err != nil {
			return err
		}
		return report(cmd, env.editor.Save(cmd.Context(), env.session))
	},
}

var templatesInsertCmd = &cobra.Command{
	Use:   "insert <id> <subject|body> <field>",
	Short: "Append a field placeholder to the subject or body",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := session.Target(strings.ToLower(args[1]))
		if target != session.TargetSubject && target != session.TargetBody {
			return errors.New("target must be subject or body")
		}
		env, err := openEditor(cmd)
		if err != nil {
			return err
		}
		defer env.close()
		if err := selectByID(env.session, args[0]); err != nil {
			return err
		}
		if err := env.session.InsertToken(target, args[2]); err != nil {
			return err
		}
		printWarnings(cmd, env.session)
		return report(cmd, env.editor.Save(cmd.Context(), env.session))
	},
}

// checkIDFree refuses an id another template already uses.
func checkIDFree(s *session.Session, id string) error {
	if s.IDTaken(id) {
		return fmt.Errorf("template id %q is already in use", strings.TrimSpace(id))
	}
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func init() {
	templatesExportCmd.Flags().StringVar(&exportFormat, "format", "json", "json or yaml")
	templatesExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout)")
	templatesExportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "copy JSON to the clipboard instead")
	templatesResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	templatesDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	addTemplateFlags(templatesNewCmd)
	addTemplateFlags(templatesSetCmd)

	templatesCmd.AddCommand(
		templatesListCmd,
		templatesShowCmd,
		templatesLintCmd,
		templatesImportCmd,
		templatesExportCmd,
		templatesResetCmd,
		templatesInstallCmd,
		templatesNewCmd,
		templatesSetCmd,
		templatesDeleteCmd,
		templatesMoveCmd,
		templatesInsertCmd,
	)
	rootCmd.AddCommand(templatesCmd)
}
