package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/appscaffold/appscaffold/internal/domain"
	"github.com/appscaffold/appscaffold/internal/logging"
	"github.com/appscaffold/appscaffold/internal/settings"
	"github.com/appscaffold/appscaffold/internal/store"
	"github.com/appscaffold/appscaffold/internal/version"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// cli holds the state shared by all subcommands
type cli struct {
	fs      afero.Fs
	file    string
	format  string
	group   string
	verbose bool
}

func newRootCmd(filesystem afero.Fs) *cobra.Command {
	c := &cli{fs: filesystem}

	root := &cobra.Command{
		Use:           "settingsctl",
		Short:         "Inspect and edit settings files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&c.file, "file", "f", "settings.ini", "settings file")
	root.PersistentFlags().StringVar(&c.format, "format", "", "file format (ini, json, yaml, toml); derived from the file name when empty")
	root.PersistentFlags().StringVarP(&c.group, "group", "g", "", "group the key names are relative to")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		c.getCmd(),
		c.setCmd(),
		c.removeCmd(),
		c.listCmd(),
		c.treeCmd(),
		c.convertCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) resolveFormat() (domain.Format, error) {
	return domain.SettingsConfig{File: c.file, Format: c.format}.ResolveFormat()
}

// open loads the settings file into a store scoped to --group
func (c *cli) open(cmd *cobra.Command) (*store.Store, domain.Format, error) {
	format, err := c.resolveFormat()
	if err != nil {
		return nil, format, err
	}

	level := logging.LevelWarn
	if c.verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(level, logging.NewConsoleAppender(cmd.ErrOrStderr(), logging.NewSimpleFormatter(false)))

	st := store.New(store.WithFs(c.fs), store.WithLogger(logger))
	if err := st.LoadFromFile(c.file, format); err != nil {
		return nil, format, err
	}
	return st, format, nil
}

// save writes the store to the settings file. Keys removed from the store
// would survive a merging save, so the file is written next to the original
// and renamed over it.
func (c *cli) save(st *store.Store, format domain.Format) error {
	tmp := c.file + ".tmp"
	if err := c.fs.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := st.SaveToFile(tmp, format); err != nil {
		return err
	}
	return c.fs.Rename(tmp, c.file)
}

// --- get ---

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value of a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := c.open(cmd)
			if err != nil {
				return err
			}

			value := st.GetIn(c.group, args[0], nil)
			if value == nil {
				return fmt.Errorf("setting %s not found", qualify(c.group, args[0]))
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
			return nil
		},
	}
}

// --- set ---

func (c *cli) setCmd() *cobra.Command {
	var valueType string

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting and write the file",
		Long: `Set a setting and write the file.

Examples:
  settingsctl set --group Window width 800 --type int
  settingsctl set General/language de`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := convertValue(args[1], valueType)
			if err != nil {
				return err
			}

			st, format, err := c.open(cmd)
			if err != nil {
				return err
			}
			st.SetIn(c.group, args[0], value)
			return c.save(st, format)
		},
	}
	cmd.Flags().StringVarP(&valueType, "type", "t", "string", "value type (string, int, float, bool, list)")
	return cmd
}

// --- remove ---

func (c *cli) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <key>",
		Aliases: []string{"rm"},
		Short:   "Remove a setting or a whole group",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, format, err := c.open(cmd)
			if err != nil {
				return err
			}

			if c.group != "" {
				st.BeginGroup(c.group)
			}
			st.Remove(args[0])
			return c.save(st, format)
		},
	}
}

// --- list ---

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every setting as key = value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := c.open(cmd)
			if err != nil {
				return err
			}

			if c.group != "" {
				st.BeginGroup(c.group)
			}
			out := cmd.OutOrStdout()
			for _, key := range st.AllKeys() {
				fmt.Fprintf(out, "%s = %s\n", key, formatValue(st.Get(key, nil)))
			}
			return nil
		},
	}
}

// --- tree ---

func (c *cli) treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the settings as a group tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := c.open(cmd)
			if err != nil {
				return err
			}

			model := settings.NewModel(st, settings.WithSync(false))
			root := model.Root()
			if c.group != "" {
				root = root.ChildByGroup(c.group)
				if root.IsNil() {
					return fmt.Errorf("group %s not found", c.group)
				}
				fmt.Fprintln(cmd.OutOrStdout(), root.Group())
				printTree(cmd.OutOrStdout(), root, 1)
				return nil
			}
			printTree(cmd.OutOrStdout(), root, 0)
			return nil
		},
	}
}

func printTree(out io.Writer, parent settings.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, child := range parent.Children() {
		if child.Key() == "" {
			fmt.Fprintf(out, "%s%s\n", indent, child.Group())
			printTree(out, child, depth+1)
			continue
		}
		fmt.Fprintf(out, "%s%s = %s\n", indent, child.Key(), formatValue(child.Value()))
	}
}

// --- convert ---

func (c *cli) convertCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert <target>",
		Short: "Write the settings into another file, possibly in another format",
		Long: `Write the settings into another file, possibly in another format.
Keys already present in the target and unknown to the source are kept.

Examples:
  settingsctl convert --file app.ini app.yaml
  settingsctl convert --file app.json --to toml app.conf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.SettingsConfig{File: args[0], Format: to}.ResolveFormat()
			if err != nil {
				return err
			}

			st, _, err := c.open(cmd)
			if err != nil {
				return err
			}
			return st.SaveToFile(args[0], target)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target format; derived from the target name when empty")
	return cmd
}

// --- version ---

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().Detailed())
		},
	}
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + domain.Separator + key
}

func formatValue(value interface{}) string {
	switch value.(type) {
	case []string, []interface{}:
		return strings.Join(cast.ToStringSlice(value), ",")
	}
	return cast.ToString(value)
}

func convertValue(text, valueType string) (interface{}, error) {
	switch strings.ToLower(valueType) {
	case "", "string":
		return text, nil
	case "int":
		return cast.ToIntE(text)
	case "float":
		return cast.ToFloat64E(text)
	case "bool":
		return cast.ToBoolE(text)
	case "list":
		parts := strings.Split(text, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
	return nil, fmt.Errorf("unknown value type %q", valueType)
}
