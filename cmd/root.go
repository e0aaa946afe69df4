// Package cmd provides the obspy-runtests command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"obspy.org/pkg/runtests/internal/adapter"
	"obspy.org/pkg/runtests/internal/controller"
	"obspy.org/pkg/runtests/internal/domain"
	m "obspy.org/pkg/runtests/internal/model"
)

const programName = "obspy-runtests"

var translator domain.Translator
var session domain.Session
var versions adapter.VersionSource
var ui controller.UI

// legacyArgs collects the legacy flags of the root command.
var legacyArgs m.LegacyArgs

// excludeFlag holds the repeatable -x values before they become specifiers.
var excludeFlag []string

func init() {
	catalog, err := adapter.NewYAMLCatalogLoader(afero.NewOsFs()).Load(m.Path(viper.GetString(catalogFileKey)))
	cobra.CheckErr(err)

	root := viper.GetString(projectRootKey)
	python := viper.GetString(enginePythonKey)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsInteractive(os.Stdin, os.Stdout))
	projectFS := adapter.NewLocalProjectFSAdapter(afero.NewOsFs(), root)
	pythonAdapter := adapter.NewLocalPythonAdapter(python, root)
	versions = adapter.NewLocalVersionSource(root, catalog.Package, pythonAdapter)
	resolver := domain.NewResolver(projectFS, catalog.Package)
	translator = domain.NewTranslator(resolver)
	session = domain.NewSession(
		catalog,
		projectFS,
		adapter.NewLocalTestRunnerAdapter(python, os.Stdout, os.Stderr),
		adapter.NewJUnitResultReader(afero.NewOsFs()),
		resolver,
		domain.NewReportBuilder(catalog, projectFS, pythonAdapter, adapter.NewLocalHostAdapter(), versions, ui),
		adapter.NewHTTPReportTransport(nil),
		ui,
	)
}

const rootLongDescription = `A command-line program that runs all ObsPy tests.

The legacy options are translated for the pytest based test suite. Providing
no modules tests all ObsPy modules which do not require an active network
connection; -a includes the network modules as well.

Reporting is enabled by -r or by the OBSPY_REPORT environment variable; the
report server can be overridden with OBSPY_REPORT_SERVER.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           programName + " [flags] [tests...]",
		Short:         "Run the ObsPy test suite",
		Long:          rootLongDescription,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(legacyArgs.Verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, args)
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.BoolVarP(&legacyArgs.Version, "version", "V", false, "show the installed version and exit")
	flags.BoolVarP(&legacyArgs.Verbose, "verbose", "v", false, "verbose mode")
	flags.BoolVarP(&legacyArgs.Quiet, "quiet", "q", false, "quiet mode")
	flags.BoolVar(&legacyArgs.RaiseAllWarnings, "raise-all-warnings", false, "raise all warnings as exceptions (debugging only)")

	flags.BoolVarP(&legacyArgs.AllModules, "all", "a", false, "test all modules (including network modules)")
	flags.StringArrayVarP(&excludeFlag, "exclude", "x", nil, "exclude given module from test (can be repeated)")

	flags.BoolVarP(&legacyArgs.TimeIt, "timeit", "t", false, "show accumulated run times of each module")
	flags.IntVarP(&legacyArgs.Slowest, "slowest", "s", 0, "list n slowest test cases")
	flags.BoolVarP(&legacyArgs.Profile, "profile", "p", false, "profile the test run (not supported by the test engine)")

	flags.BoolVarP(&legacyArgs.Report, "report", "r", false, "automatically submit a test report")
	flags.BoolVarP(&legacyArgs.DontAsk, "dontask", "d", false, "don't explicitly ask for submitting a test report")
	flags.StringVarP(&legacyArgs.Server, "server", "u", m.DefaultServer, "report server")
	flags.StringVarP(&legacyArgs.Node, "node", "n", "", "nodename visible at the report server (default: hostname)")
	flags.StringVarP(&legacyArgs.Log, "log", "l", "", "append log file to test report")
	bindFlagToConfig(flags.Lookup("log"), reportLogKey)
	flags.StringVar(&legacyArgs.CIURL, "ci-url", "", "URL to Continuous Integration job page")
	flags.StringVar(&legacyArgs.PRURL, "pr-url", "", "GitHub (Pull Request) URL")

	flags.BoolVar(&legacyArgs.Tutorial, "tutorial", false, "add doctests in tutorial")
	flags.BoolVar(&legacyArgs.NoFlake8, "no-flake8", false, "skip code formatting test")
	flags.BoolVar(&legacyArgs.KeepImages, "keep-images", false, "store images created during image comparison tests")
	flags.BoolVar(&legacyArgs.KeepOnlyFailedImages, "keep-only-failed-images", false, "store only failed images and their diffs")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

func runTests(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	legacy := legacyArgs
	legacy.Exclude = parseSpecifiers(excludeFlag)
	legacy.Tests = parseSpecifiers(args)
	legacy.Log = viper.GetString(reportLogKey)

	inv, err := translator.Translate(legacy, reportEnv())
	if errors.Is(err, domain.ErrVersionRequested) {
		version, err := versions.Version(ctx)
		if err != nil {
			slog.Warn("failed to determine installed version", "error", err)
		}

		ui.DisplayVersion(ctx, programName, version)

		return nil
	}

	if err != nil {
		return err
	}

	return session.Run(ctx, domain.SessionArgs{
		Invocation:  inv,
		Dir:         viper.GetString(projectRootKey),
		TimeIt:      legacy.TimeIt,
		DontAsk:     legacy.DontAsk,
		Interactive: controller.IsInteractive(cmd.InOrStdin(), cmd.OutOrStdout()),
		LogPath:     legacy.Log,
	})
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		if !errors.Is(err, domain.ErrTestsFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}

		os.Exit(1)
	}
}

func parseSpecifiers(args []string) []m.Specifier {
	specs := make([]m.Specifier, 0, len(args))
	for _, arg := range args {
		specs = append(specs, m.Specifier(arg))
	}

	return specs
}
