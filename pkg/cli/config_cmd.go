package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration profiles",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetProfileCmd())
	cmd.AddCommand(newConfigUseProfileCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "No configuration found at %s\n", ConfigPath())
				return err
			}
			if getOutputFormat(cmd) == outputJSON {
				return PrintJSON(cmd.OutOrStdout(), cfg)
			}

			names := make([]string, 0, len(cfg.Profiles))
			for name := range cfg.Profiles {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				p := cfg.Profiles[name]
				active := ""
				if name == cfg.CurrentProfile {
					active = "*"
				}
				rows = append(rows, []string{name, active, p.ViewID, p.KeyFile, p.Output, p.LogLevel})
			}
			PrintTable(cmd.OutOrStdout(), []string{"profile", "active", "view-id", "key-file", "output", "log-level"}, rows)
			return nil
		},
	}
}

func newConfigSetProfileCmd() *cobra.Command {
	var (
		name     string
		keyFile  string
		viewID   string
		output   string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "set-profile",
		Short: "Create or update a configuration profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if cmd.Flags().Changed("output") {
				if err := validateOutputFormat(output); err != nil {
					return err
				}
			}

			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = emptyUserConfig()
			}

			p := cfg.Profiles[name]
			if cmd.Flags().Changed("key-file") {
				p.KeyFile = keyFile
			}
			if cmd.Flags().Changed("view-id") {
				p.ViewID = viewID
			}
			if cmd.Flags().Changed("output") {
				p.Output = output
			}
			if cmd.Flags().Changed("log-level") {
				p.LogLevel = logLevel
			}
			cfg.Profiles[name] = p

			if err := SaveUserConfig(cfg); err != nil {
				return err
			}
			if getOutputFormat(cmd) == outputJSON {
				return PrintJSON(cmd.OutOrStdout(), map[string]string{
					"status":  "ok",
					"profile": name,
					"path":    ConfigPath(),
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %q saved to %s\n", name, ConfigPath())
			return nil
		},
	}

	// Local flags shadow the root's persistent flags of the same name.
	cmd.Flags().StringVar(&name, "name", "", "Profile name (required)")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "Service-account JSON key file")
	cmd.Flags().StringVar(&viewID, "view-id", "", "Default view id")
	cmd.Flags().StringVar(&output, "output", "", "Default output format")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Default log level")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newConfigUseProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use-profile <name>",
		Short: "Set the active configuration profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				return fmt.Errorf("no config found: %w", err)
			}
			name := args[0]
			if _, ok := cfg.Profiles[name]; !ok {
				return fmt.Errorf("profile %q not found", name)
			}
			cfg.CurrentProfile = name
			if err := SaveUserConfig(cfg); err != nil {
				return err
			}
			if getOutputFormat(cmd) == outputJSON {
				return PrintJSON(cmd.OutOrStdout(), map[string]string{
					"status":         "ok",
					"active_profile": name,
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Active profile set to %q\n", name)
			return nil
		},
	}
}
