package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antonio-alexander/go-learning-history/internal"
	"github.com/antonio-alexander/go-learning-history/internal/cache"
	"github.com/antonio-alexander/go-learning-history/internal/client"
	"github.com/antonio-alexander/go-learning-history/internal/data"
	"github.com/antonio-alexander/go-learning-history/internal/logic"
	"github.com/antonio-alexander/go-learning-history/internal/utilities"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

func main() {
	envs, err := internal.Envs(os.Environ())
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err := Main(os.Args[1:], envs, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func Main(args []string, envs map[string]string, output io.Writer) error {
	cmd := newRootCmd(envs)
	cmd.SetArgs(args)
	cmd.SetOut(output)
	return cmd.ExecuteContext(context.Background())
}

func newRootCmd(envs map[string]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "learning-history",
		Short:         "Manage employees and their learning history from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newListCmd(envs))
	cmd.AddCommand(newAddCmd(envs))
	cmd.AddCommand(newRenameCmd(envs))
	cmd.AddCommand(newDeleteCmd(envs))
	cmd.AddCommand(newCoursesCmd(envs))
	cmd.AddCommand(newDashboardCmd(envs))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "client: go-learning-history v%s (%s) built from: %s\n",
				Version, GitCommit, GitBranch)
		},
	}
}

// withLogic opens a console session against the remote store (which loads
// the first snapshot), runs fx and closes the session
func withLogic(cmd *cobra.Command, envs map[string]string, fx func(context.Context, *logic.Logic) error) error {
	ctx := internal.CtxEnsureCorrelationId(cmd.Context())
	logger := utilities.NewLogger(cmd.ErrOrStderr())
	_ = logger.Configure(envs)

	client := client.NewClient(logger)
	if err := client.Configure(envs); err != nil {
		return err
	}
	if err := client.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Error(ctx, "error while closing client: %s", err)
		}
	}()
	logic := logic.NewLogic(client, cache.NewMemory(logger), logger)
	if err := logic.Configure(envs); err != nil {
		return err
	}
	if err := logic.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := logic.Close(context.Background()); err != nil {
			logger.Error(ctx, "error while closing logic: %s", err)
		}
	}()
	return fx(ctx, logic)
}

func printJson(cmd *cobra.Command, item any) error {
	bytes, err := json.MarshalIndent(item, "", " ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bytes))
	return err
}

// parseFields parses field=value pairs
func parseFields(pairs []string) ([][2]string, error) {
	fields := make([][2]string, 0, len(pairs))
	for _, pair := range pairs {
		field, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, errors.Errorf("expected field=value: %q", pair)
		}
		fields = append(fields, [2]string{strings.TrimSpace(field), value})
	}
	return fields, nil
}
