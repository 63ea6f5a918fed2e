package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"template-composer/internal/clipboard"
	"template-composer/internal/compose"
	"template-composer/internal/config"
	"template-composer/internal/contact"
	"template-composer/internal/directory"
	"template-composer/internal/host"
	"template-composer/internal/library"
	"template-composer/internal/logging"
	"template-composer/internal/options"
	"template-composer/internal/redisclient"
	"template-composer/internal/session"
	"template-composer/internal/storage"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	appCfg  config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "template-composer",
	Short:        "Email template composer",
	Long:         "Author email templates with typed fields and render them into a compose draft.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/template-composer")
		v.AddConfigPath("configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	log := logging.New(GetConfig().App, cmd.ErrOrStderr())
	if f := viper.ConfigFileUsed(); f != "" {
		log.Debug().Str("file", f).Msg("using config file")
	}
	return log
}

// openStore builds the configured key-value backend. The returned func
// releases its connections.
func openStore(cfg config.Config) (storage.Store, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store.Backend)) {
	case "file":
		return storage.NewFileStore(cfg.Store.Dir), func() {}, nil
	case "redis":
		rdb := redisclient.New(cfg.Redis)
		return storage.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil
	case "memory":
		return storage.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q (want file, redis or memory)", cfg.Store.Backend)
	}
}

func optionResolver(cfg config.Config) *options.Resolver {
	return options.New(cfg.App.Locale)
}

func contactResolver(cfg config.Config) (*contact.Resolver, error) {
	if cfg.Directory.BaseURL == "" {
		return contact.NewResolver(nil), nil
	}
	tm, err := time.ParseDuration(cfg.Directory.Timeout)
	if err != nil {
		return nil, fmt.Errorf("directory.timeout: %w", err)
	}
	return contact.NewResolver(directory.New(cfg.Directory.BaseURL, cfg.Directory.APIKey, tm)), nil
}

// editorEnv is what the template-maintenance commands share.
type editorEnv struct {
	editor  *host.Editor
	session *session.Session
	log     zerolog.Logger
	close   func()
}

func openEditor(cmd *cobra.Command) (*editorEnv, error) {
	cfg := GetConfig()
	log := newLogger(cmd)
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	e := host.NewEditor(library.New(store, cfg.Store.Key), clipboard.System{}, log)
	s, st := e.Open(cmd.Context())
	if st.Failed {
		closeStore()
		return nil, errors.New(st.Message)
	}
	s.Resolver = optionResolver(cfg)
	return &editorEnv{editor: e, session: s, log: log, close: closeStore}, nil
}

func openComposer(cmd *cobra.Command, draftPath string) (*host.Composer, *compose.FileAccessor, func(), error) {
	cfg := GetConfig()
	log := newLogger(cmd)
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	contacts, err := contactResolver(cfg)
	if err != nil {
		closeStore()
		return nil, nil, nil, err
	}
	if draftPath == "" {
		draftPath = cfg.Compose.DraftPath
	}
	draft := compose.NewFileAccessor(draftPath)
	c := host.NewComposer(library.New(store, cfg.Store.Key), draft, contacts, optionResolver(cfg), log)
	return c, draft, closeStore, nil
}

// report prints a successful status and turns a failed one into the
// command's error.
func report(cmd *cobra.Command, st host.Status) error {
	if st.Failed {
		return errors.New(st.Message)
	}
	if st.Message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), st.Message)
	}
	return nil
}

// printWarnings writes the advisory diagnostics of the selected template.
func printWarnings(cmd *cobra.Command, s *session.Session) {
	cur, ok := s.Current()
	if !ok {
		return
	}
	for _, w := range s.Diagnostics() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", cur.ID, w)
	}
}

// confirmer asks on the command's input unless assumeYes is set.
func confirmer(cmd *cobra.Command, assumeYes bool) session.Confirm {
	if assumeYes {
		return session.Always
	}
	in := bufio.NewReader(cmd.InOrStdin())
	return func(prompt string) bool {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", prompt)
		line, _ := in.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// selectByID selects the template with id in the session.
func selectByID(s *session.Session, id string) error {
	i := s.Find(id)
	if i < 0 {
		return fmt.Errorf("template %q not found", id)
	}
	return s.Select(i, session.Always)
}
