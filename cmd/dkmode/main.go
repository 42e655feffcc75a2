package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/dkmode/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

const version = "0.1.0"

// options is shared by every subcommand. The root command fills it from the
// environment, then from its persistent flags, before any subcommand runs.
type options struct {
	cfg     config.Config
	envErr  error
	verbose int
	format  string

	compileFlags string
	checkFlags   string
}

func main() {
	opts := &options{}
	opts.cfg, opts.envErr = config.FromEnv()

	if err := newRootCmd(opts).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dkmode:", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dkmode",
		Short:         "Contextual analysis and editor tooling for Dedukti",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.finish(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfg.Checker, "checker", opts.cfg.Checker, "type checker executable (env "+config.EnvChecker+")")
	flags.StringVar(&opts.compileFlags, "compile-flags", strings.Join(opts.cfg.CompileFlags, " "), "flags passed when compiling (env "+config.EnvCompileFlags+")")
	flags.StringVar(&opts.checkFlags, "check-flags", strings.Join(opts.cfg.CheckFlags, " "), "flags passed when checking or evaluating (env "+config.EnvCheckFlags+")")
	flags.IntVar(&opts.cfg.BasicIndent, "indent", opts.cfg.BasicIndent, "basic indentation width (env "+config.EnvIndent+")")
	flags.StringVar(&opts.cfg.Directive, "directive", opts.cfg.Directive, "reduction directive: hnf, wnf, snf or a template with one %s (env "+config.EnvDirective+")")
	flags.DurationVar(&opts.cfg.Timeout, "timeout", opts.cfg.Timeout, "limit for one checker run, 0 for none (env "+config.EnvTimeout+")")
	flags.CountVarP(&opts.verbose, "verbose", "v", "log more; repeat for debug output")
	flags.StringVar(&opts.format, "format", "text", "output format: text or json")

	rootCmd.AddCommand(newClassifyCmd(opts))
	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newPhraseCmd(opts))
	rootCmd.AddCommand(newContextCmd(opts))
	rootCmd.AddCommand(newUnitCmd(opts))
	rootCmd.AddCommand(newEvalCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newIndentCmd(opts))
	rootCmd.AddCommand(newStepCmd(opts))
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLSPCmd(opts))

	return rootCmd
}

func (o *options) finish(cmd *cobra.Command) error {
	if o.envErr != nil {
		return fmt.Errorf("environment: %w", o.envErr)
	}
	flags := cmd.Flags()
	if flags.Changed("compile-flags") {
		o.cfg.CompileFlags = strings.Fields(o.compileFlags)
	}
	if flags.Changed("check-flags") {
		o.cfg.CheckFlags = strings.Fields(o.checkFlags)
	}
	commonlog.Configure(o.verbose, nil)
	return o.cfg.Validate()
}
