package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfujita/budgetflow/pkg/config"
	"github.com/mfujita/budgetflow/pkg/errors"
	"github.com/mfujita/budgetflow/pkg/flow"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	mode   string // view mode: global, ministry, project, recipient
	target string // fixed entity name for non-global modes
	output string // output file path; empty writes to stdout

	ministryLimit     int
	projectLimit      int
	recipientLimit    int
	subRecipientLimit int

	ministryLevel  int
	projectLevel   int
	recipientLevel int
}

// newGenerateCmd creates the generate command. It builds the flow graph for
// one view and writes the deterministic JSON serialization.
func newGenerateCmd(configPath *string) *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a flow graph and write it as JSON",
		Example: `  budgetflow generate --mode global
  budgetflow generate --mode ministry --target "Ministry of Health" -o health.json
  budgetflow generate --mode project --target "Vaccine procurement" --recipient-level 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), *configPath, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(flow.ModeGlobal), "view mode (global, ministry, project, recipient)")
	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "entity name for non-global modes")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	cmd.Flags().IntVar(&opts.ministryLimit, "ministry-limit", 0, "ministries per page")
	cmd.Flags().IntVar(&opts.projectLimit, "project-limit", 0, "projects per page")
	cmd.Flags().IntVar(&opts.recipientLimit, "recipient-limit", 0, "recipients per page")
	cmd.Flags().IntVar(&opts.subRecipientLimit, "sub-recipient-limit", 0, "sub-recipients per recipient")

	cmd.Flags().IntVar(&opts.ministryLevel, "ministry-level", 0, "ministry drilldown page")
	cmd.Flags().IntVar(&opts.projectLevel, "project-level", 0, "project drilldown page")
	cmd.Flags().IntVar(&opts.recipientLevel, "recipient-level", 0, "recipient drilldown page")

	return cmd
}

func runGenerate(ctx context.Context, configPath string, opts *generateOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	engine, c, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	p := applyLimits(flow.Params{
		Mode:   flow.Mode(opts.mode),
		Target: opts.target,

		MinistryLimit:     opts.ministryLimit,
		ProjectLimit:      opts.projectLimit,
		RecipientLimit:    opts.recipientLimit,
		SubRecipientLimit: opts.subRecipientLimit,

		MinistryLevel:  opts.ministryLevel,
		ProjectLevel:   opts.projectLevel,
		RecipientLevel: opts.recipientLevel,
	}, cfg.Limits)

	// The spinner writes to stderr; keep it away from piped stdout output.
	var sp *spinner
	if opts.output != "" {
		sp = newSpinner(ctx, "generating flow graph")
		sp.start()
	}

	prog := newProgress(logger)
	g, cached, err := engine.Generate(ctx, p)
	if sp != nil {
		sp.stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %s view", p.Mode))

	data, err := g.Marshal()
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.output)
	}
	printSuccess("Flow graph written")
	printFile(opts.output)
	printStats(len(g.Nodes), len(g.Edges), cached)
	printNextStep("Render it", fmt.Sprintf("budgetflow render %s -o graph.svg", opts.output))
	return nil
}
