// Package cli exposes the correspondence analyzer as a cobra command.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/correspondence-analyzer/internal/config"
	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
	"github.com/kirillkom/correspondence-analyzer/internal/core/ports"
	"github.com/kirillkom/correspondence-analyzer/internal/core/rules"
	"github.com/spf13/cobra"
)

const (
	ExitOK         = 0
	ExitInput      = 1
	ExitClassifier = 2
	ExitUnexpected = 3
)

// AnalyzerFactory builds an analyzer once flags have been applied to cfg.
type AnalyzerFactory func(cfg config.Config) (ports.CorrespondenceAnalyzer, error)

func NewAnalyzeCommand(cfg config.Config, newAnalyzer AnalyzerFactory) *cobra.Command {
	var (
		text        string
		asJSON      bool
		version     string
		rulesetFile string
	)

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Analyze customer correspondence",
		Long: "Score the sentiment of a message and extract prioritized staff tasks.\n" +
			"Text is taken from --text, the positional argument, or stdin.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), text, args)
			if err != nil {
				return err
			}

			if version != "" {
				if _, err := rules.Lookup(version); err != nil {
					return domain.WrapError(domain.ErrInvalidInput, "select ruleset", err)
				}
				cfg.RulesetVersion = version
			}
			if rulesetFile != "" {
				if _, err := rules.LoadRulesetFile(rulesetFile); err != nil {
					return domain.WrapError(domain.ErrInvalidInput, "load ruleset file", err)
				}
				cfg.RulesetPath = rulesetFile
			}

			analyzer, err := newAnalyzer(cfg)
			if err != nil {
				return fmt.Errorf("init analyzer: %w", err)
			}
			result, err := analyzer.Analyze(cmd.Context(), input)
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "text to analyze")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&version, "ruleset", "", "built-in ruleset version ("+strings.Join(rules.Versions(), ", ")+")")
	cmd.Flags().StringVar(&rulesetFile, "ruleset-file", "", "YAML ruleset overlay")
	cmd.MarkFlagsMutuallyExclusive("ruleset", "ruleset-file")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return domain.WrapError(domain.ErrInvalidInput, "parse flags", err)
	})

	return cmd
}

func readInput(stdin io.Reader, text string, args []string) (string, error) {
	switch {
	case text != "" && len(args) > 0:
		return "", domain.WrapError(domain.ErrInvalidInput, "read input", errors.New("use either --text or an argument"))
	case text != "":
		return text, nil
	case len(args) > 0:
		return args[0], nil
	}

	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(raw), nil
}

func printResult(w io.Writer, result *domain.AnalysisResult) {
	fmt.Fprintf(w, "Sentiment: %s (%.3f)\n", result.SentimentCategory, result.SentimentScore)
	fmt.Fprintf(w, "High priority tasks: %d\n", result.HighPriorityCount)
	fmt.Fprintln(w, "Staff tasks:")
	for i, line := range result.StaffTasks {
		fmt.Fprintf(w, "  %d. %s\n", i+1, line)
	}
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case domain.IsKind(err, domain.ErrInvalidInput):
		return ExitInput
	case domain.IsKind(err, domain.ErrClassification):
		return ExitClassifier
	default:
		return ExitUnexpected
	}
}
