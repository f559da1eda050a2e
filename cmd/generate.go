package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/qgen/internal/config"
	"github.com/abhisek/qgen/internal/extract"
	"github.com/abhisek/qgen/internal/qgen"
	"github.com/abhisek/qgen/internal/store"
	"github.com/abhisek/qgen/internal/ui/components"
	"github.com/abhisek/qgen/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questions for an answer in a passage",
	Long: "Generate questions whose answer is --answer, using the passage given with\n" +
		"--context or extracted from --file (PDF, TXT or DOCX).",
	Example: `  qgen generate -c "Paris is the capital of France." -a Paris -n 3
  qgen generate -f notes.pdf -a photosynthesis`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringP("file", "f", "", "Document to take the context from")
	generateCmd.Flags().StringP("context", "c", "", "Context paragraph")
	generateCmd.Flags().StringP("answer", "a", "", "Answer the questions should target (prompted for on a terminal)")
	generateCmd.Flags().IntP("count", "n", 0, "Number of questions, 1-10 (default from config)")
	generateCmd.Flags().Int("max-length", 0, "Maximum tokens per question (default from config)")
	generateCmd.Flags().Bool("plain", false, "Disable colors and the progress spinner")
	generateCmd.MarkFlagsMutuallyExclusive("file", "context")
	generateCmd.MarkFlagsOneRequired("file", "context")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	plain, _ := cmd.Flags().GetBool("plain")
	interactive := !plain && isTerminal(os.Stdin) && isTerminal(os.Stderr)
	styled := !plain && isTerminal(os.Stdout)

	input, err := buildInput(ctx, cmd, cfg, interactive)
	if err != nil {
		return err
	}
	if err := qgen.Validate(input); err != nil {
		return err
	}
	if !qgen.AnswerInContext(input.Context, input.Answer) {
		fmt.Fprintln(cmd.ErrOrStderr(), notice(styled, theme.NoticeWarning,
			"warning: the answer does not appear in the context"))
	}

	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	var repo store.EventRepo
	if st != nil {
		defer st.Close()
		repo = st.EventRepo()
	}

	loader := qgen.NewProviderLoader(cfg.LLM, generatorConfig(cfg), repo, logger)
	var set *qgen.QuestionSet
	job := func(ctx context.Context) error {
		gen, err := loader.Get(ctx)
		if err != nil {
			return err
		}
		set, err = gen.Generate(ctx, input)
		return err
	}

	if interactive {
		err = components.RunSpinner(ctx, cmd.ErrOrStderr(), "Generating questions...", job)
	} else {
		err = job(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), components.RenderQuestions(set.Questions, styled))
	if len(set.Questions) < set.Requested {
		fmt.Fprintln(cmd.ErrOrStderr(), notice(styled, theme.Subtitle,
			fmt.Sprintf("%d of %d requested questions were distinct", len(set.Questions), set.Requested)))
	}
	return nil
}

// buildInput gathers the context, answer and sizing flags.
func buildInput(ctx context.Context, cmd *cobra.Command, cfg config.Config, interactive bool) (qgen.Input, error) {
	input := qgen.Input{}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		res, err := extractPath(ctx, path, cfg.Server.MaxUploadBytes)
		if err != nil {
			return input, err
		}
		input.Context = res.Text
	} else {
		input.Context, _ = cmd.Flags().GetString("context")
	}

	input.Answer, _ = cmd.Flags().GetString("answer")
	if input.Answer == "" && interactive {
		answer, err := components.PromptLine(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(),
			"Answer (taken from context)", "e.g. Paris")
		if err != nil {
			return input, err
		}
		input.Answer = answer
	}

	input.NumQuestions = cfg.Generation.DefaultCount
	if cmd.Flags().Changed("count") {
		input.NumQuestions, _ = cmd.Flags().GetInt("count")
	}
	input.MaxLength, _ = cmd.Flags().GetInt("max-length")
	return input, nil
}

// extractPath extracts text from the document at path, picking the
// format from its extension.
func extractPath(ctx context.Context, path string, maxBytes int64) (*extract.Result, error) {
	format := extract.FormatFromExt(filepath.Ext(path))
	if format == extract.FormatUnknown {
		return nil, fmt.Errorf("%s: %w", path, extract.ErrUnsupportedFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := extract.New(maxBytes).ExtractFile(ctx, f, format.MIME())
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	if res.Text == "" {
		return nil, fmt.Errorf("extract %s: %w", path, extract.ErrNoText)
	}
	return res, nil
}

func notice(styled bool, style lipgloss.Style, msg string) string {
	if !styled {
		return msg
	}
	return style.Render(msg)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
