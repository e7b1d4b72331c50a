package main

import (
	"errors"
	"fmt"

	"github.com/lmagsino/stride/internal/client"
	"github.com/lmagsino/stride/internal/config"
	"github.com/lmagsino/stride/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries what every subcommand needs once flags are parsed.
type cli struct {
	cfg     config.Client
	log     *zap.Logger
	client  *client.Client
	session *client.Session
}

func newRootCmd() *cobra.Command {
	v := config.NewClientViper()
	app := &cli{}

	root := &cobra.Command{
		Use:          "stride",
		Short:        "Stride runner onboarding from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadClient(v)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}

			app.cfg = cfg
			app.log = log
			app.client = client.New(cfg.APIURL, client.NewFileTokenStore(cfg.TokenFile), client.WithLogger(log))
			app.session = client.NewSession(app.client)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if app.log != nil {
				_ = app.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-url", "", "Stride API base URL (env STRIDE_API_URL)")
	flags.String("token-file", "", "where the session token is kept (env STRIDE_TOKEN_FILE)")
	flags.String("log-level", "", "log level: debug, info, warn, error (env STRIDE_LOG_LEVEL)")
	_ = v.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = v.BindPFlag("token_file", flags.Lookup("token-file"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		newSignupCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newOnboardCmd(app),
		newProfileCmd(app),
		newRaceCmd(app),
	)
	return root
}

// requireUser restores the session and fails when nobody is signed in.
func (a *cli) requireUser(cmd *cobra.Command) (*client.User, error) {
	if err := a.session.Load(cmd.Context()); err != nil {
		return nil, userError(err)
	}
	u := a.session.User()
	if u == nil {
		return nil, errors.New("not signed in; run `stride login` first")
	}
	return u, nil
}

// userError replaces API failures with the text a user should see.
func userError(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Display())
	}
	return err
}
