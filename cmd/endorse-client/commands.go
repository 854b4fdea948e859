package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/nwr-dao/endorse-client/cmd/endorse-client/config"
	endorseclient "github.com/nwr-dao/endorse-client/internal/endorse-client"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/actions"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/connectors"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/environment"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/helpers"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/levels"
	"github.com/nwr-dao/endorse-client/internal/endorse-client/networks"
)

type rootOptions struct {
	configFile string
	connector  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "endorse-client",
		Short:         "Connect a wallet and endorse user and DAO levels on the NWR endorsement contract",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default: search ~/.config/endorse-client, ~/config, .)")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newServeCmd(opts),
		newLevelsCmd(),
		newConnectorsCmd(opts),
		newStatsCmd(opts),
		newEndorseCmd(opts, "endorse-user", "Endorse the user level of an address"),
		newEndorseCmd(opts, "endorse-dao", "Endorse the DAO level of an address"),
		newProbeCmd(),
	)
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configFile != "" {
		return config.LoadFrom(nil, o.configFile)
	}
	return config.Load()
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the endorsement page on the local machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return endorseclient.Run(cmd.Context(), cfg, endorseclient.BuildInfo{
				Version:   Version,
				Commit:    Commit,
				BuildDate: BuildDate,
			})
		},
	}
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the endorsement levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), levels.Options())
		},
	}
}

func newConnectorsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "connectors",
		Short: "List the configured wallet connectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()
			return printJSON(cmd.OutOrStdout(), rt.Controller.Connectors())
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <address>",
		Short: "Read the endorsement stats of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			stats, res, err := rt.Controller.FetchStats(cmd.Context(), cliEnvironment(), args[0])
			if err != nil {
				return err
			}
			if res.Outcome != actions.Success {
				return errors.New(res.Message)
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().StringVar(&opts.connector, "connector", "", "connector id to sign with")
	return cmd
}

func newEndorseCmd(opts *rootOptions, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <address> <level>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := levels.Parse(args[1]); err != nil {
				return err
			}
			rt, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			run := rt.Controller.EndorseUser
			if use == "endorse-dao" {
				run = rt.Controller.EndorseDao
			}
			res, err := run(cmd.Context(), cliEnvironment(), actions.Request{Target: args[0], Level: args[1]})
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if res.Outcome != actions.Success {
				return errors.New(res.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.connector, "connector", "", "connector id to sign with")
	return cmd
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <rpc-url>",
		Short: "Identify the chain behind a JSON-RPC endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := networks.ProbeRPC(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func (o *rootOptions) runtime() (*endorseclient.Runtime, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return endorseclient.NewRuntime(cfg)
}

// cliEnvironment is the host the CLI reports. It has no page, so no wallet
// globals are present.
func cliEnvironment() environment.Environment {
	return environment.Detect(environment.StaticHost{Agent: "endorse-client/" + Version})
}

// connect opens a session with the chosen connector.
func (o *rootOptions) connect(cmd *cobra.Command) (*endorseclient.Runtime, error) {
	rt, err := o.runtime()
	if err != nil {
		return nil, err
	}
	env := cliEnvironment()
	err = rt.Controller.Connect(cmd.Context(), env, o.connector)
	if errors.Is(err, connectors.ErrChoiceRequired) && helpers.Interactive() {
		o.connector = pickConnector(rt.Controller.Connectors())
		err = rt.Controller.Connect(cmd.Context(), env, o.connector)
	}
	if err != nil {
		rt.Close()
		return nil, err
	}
	if snap := rt.Controller.Snapshot(); snap.HandoffURL != "" {
		rt.Close()
		return nil, errors.Wrapf(connectors.ErrHandoffOnly, "connector %q (open %s)", o.connector, snap.HandoffURL)
	}
	return rt, nil
}

// pickConnector asks for a connector id, defaulting to the first one that
// signs in-process.
func pickConnector(ds []connectors.Descriptor) string {
	def := ""
	ids := make([]string, 0, len(ds))
	for _, d := range ds {
		ids = append(ids, d.ID)
		if def == "" && d.Flags.Has(connectors.FlagInPageSigner) {
			def = d.ID
		}
	}
	return helpers.PromptLineWithDefault("Connector ("+strings.Join(ids, ", ")+")", def)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
