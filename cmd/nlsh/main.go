package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/nlshell/nlsh/internal/config"
	"github.com/nlshell/nlsh/internal/executor"
	"github.com/nlshell/nlsh/internal/history"
	"github.com/nlshell/nlsh/internal/prompt"
	"github.com/nlshell/nlsh/internal/provider"
	"github.com/nlshell/nlsh/internal/ui"
)

var (
	// version is set by goreleaser at build time
	version = "dev"

	// CLI flags
	setProvider string
	setAPIKey   string
	copyOnly    bool
	debug       bool
)

// Seams for the flow tests; production code never reassigns these.
var (
	resolveProvider = provider.Resolve
	confirmRun      = ui.Confirm
	exit            = os.Exit
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.ShowError(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nlsh [prompt...]",
		Short:         "Natural language shell",
		Long:          "nlsh translates natural language into a shell command and runs it after confirmation",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().StringVarP(&setProvider, "set-provider", "P", "", "Set default provider (gemini or zai)")
	rootCmd.Flags().StringVarP(&setAPIKey, "set-api-key", "A", "", "Set API key for the active provider")
	rootCmd.Flags().BoolVarP(&copyOnly, "copy", "c", false, "Copy the generated command to the clipboard instead of running it")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	// Stop flag parsing at the first prompt word so requests like
	// "find -name foo" are not mistaken for flags.
	rootCmd.Flags().SetInterspersed(false)

	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Interactively set the provider and API key",
		RunE:  runConfigure,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent invocations",
		RunE:  runHistory,
	}

	rootCmd.AddCommand(configureCmd, historyCmd)

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	env, err := config.Load()
	if err != nil && debug {
		// A corrupt or unreadable config must not block the tool.
		fmt.Fprintf(os.Stderr, "[DEBUG] Config: load failed: %v\n", err)
	}

	switch {
	case setProvider != "":
		return runSetProvider(setProvider)
	case setAPIKey != "":
		return runSetAPIKey(env, setAPIKey)
	case len(args) == 0:
		fmt.Fprintln(os.Stderr, "Usage: nlsh <prompt>")
		return nil
	}

	return runGenerate(env, args)
}

// runSetProvider persists the default provider, no network call involved
func runSetProvider(name string) error {
	p, ok := provider.Parse(name)
	if !ok {
		return fmt.Errorf("provider must be gemini or zai")
	}

	if err := config.Set(config.ProviderKey, p.Name()); err != nil {
		return err
	}
	if err := config.MirrorToShellProfiles(config.ProviderKey, p.Name()); err != nil {
		return err
	}

	ui.Plain("Default provider set to %s", p.Name())
	return nil
}

// runSetAPIKey persists the API key for the currently active provider
func runSetAPIKey(env *config.Env, key string) error {
	p := provider.Resolve(env)

	if err := config.Set(p.EnvKey(), key); err != nil {
		return err
	}
	if err := config.MirrorToShellProfiles(p.EnvKey(), key); err != nil {
		return err
	}

	ui.Plain("API key saved for %s", p.Name())
	return nil
}

// runGenerate is the main flow: prompt → provider → confirm → execute
func runGenerate(env *config.Env, args []string) error {
	request := strings.Join(args, " ")

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	promptText := prompt.LoadTemplate().Build(request, cwd)

	p := resolveProvider(env)
	if z, ok := p.(*provider.Zai); ok {
		z.SetModel(strings.TrimSpace(env.Get(config.ModelKey)))
	}
	if debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] Provider: using %s\n", p.Name())
	}

	apiKey, err := provider.EnsureAPIKey(env, p)
	if err != nil {
		return err
	}

	ui.ShowInfo("Thinking...")
	if debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] Provider: translating request %q\n", request)
	}
	command, err := p.GenerateCommand(context.Background(), promptText, apiKey)
	if err != nil {
		return err
	}
	if debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] Provider: proposed command %q\n", command)
	}

	ui.ShowCommand(command)

	if copyOnly {
		if err := clipboard.WriteAll(command); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		ui.ShowSuccess("Command copied to clipboard")
		recordHistory(request, command, false)
		return nil
	}

	decision, err := confirmRun()
	if err != nil {
		return err
	}

	recordHistory(request, command, decision == ui.Confirmed)

	if decision == ui.Cancelled {
		ui.ShowInfo("Cancelled.")
		return nil
	}

	code, err := executor.RunWithDebug(command, debug)
	if err != nil {
		return err
	}
	if code != 0 {
		// Mirror the child's exit code as our own.
		exit(code)
	}
	return nil
}

// recordHistory saves one invocation; failures warn but never fail the run
func recordHistory(request, command string, executed bool) {
	store, err := history.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to open history: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.Add(history.Entry{Request: request, Command: command, Executed: executed}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
	}
}

func runConfigure(cmd *cobra.Command, args []string) error {
	name, err := ui.PromptProvider()
	if err != nil {
		return err
	}
	p, ok := provider.Parse(name)
	if !ok {
		return fmt.Errorf("provider must be gemini or zai")
	}

	key, err := ui.PromptAPIKey(p.Name())
	if err != nil {
		return err
	}

	if err := config.Set(config.ProviderKey, p.Name()); err != nil {
		return err
	}
	if err := config.MirrorToShellProfiles(config.ProviderKey, p.Name()); err != nil {
		return err
	}
	if err := config.Set(p.EnvKey(), key); err != nil {
		return err
	}
	if err := config.MirrorToShellProfiles(p.EnvKey(), key); err != nil {
		return err
	}

	path, _ := config.EnvFilePath()
	ui.ShowSuccess(fmt.Sprintf("Configuration saved to %s", path))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	entries, err := store.Recent(20)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		ui.ShowInfo("No history yet.")
		return nil
	}

	for _, e := range entries {
		marker := "·"
		if e.Executed {
			marker = "✓"
		}
		ui.Plain("%s %s  %s → %s", e.Timestamp.Format("2006-01-02 15:04"), marker, e.Request, e.Command)
	}
	return nil
}
