package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/intervu/internal/llm"
	"github.com/abhisek/intervu/internal/session"
	"github.com/abhisek/intervu/internal/store"
)

var (
	interviewerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#8B5CF6"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#14B8A6"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F97316"))

	reportStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8FAFC"))
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interactive interview session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd)
	},
}

func init() {
	interviewCmd.Flags().String("name", "Кандидат", "Candidate name")
	interviewCmd.Flags().String("position", "Backend Developer", "Target position")
	interviewCmd.Flags().String("grade", "middle", "Grade: junior, middle or senior")
	interviewCmd.Flags().String("experience", "", "Short experience summary, e.g. \"3 года Go и PostgreSQL\"")
	interviewCmd.Flags().Int("scenario", 1, "Scenario ID used in the log file name")
	interviewCmd.Flags().String("out", ".", "Directory for the interview log document")

	// Same flags on the root command, which defaults to an interview.
	rootCmd.Flags().AddFlagSet(interviewCmd.Flags())
}

func runInterview(cmd *cobra.Command) error {
	ctx := cmd.Context()

	name, _ := cmd.Flags().GetString("name")
	position, _ := cmd.Flags().GetString("position")
	grade, _ := cmd.Flags().GetString("grade")
	experience, _ := cmd.Flags().GetString("experience")
	scenario, _ := cmd.Flags().GetInt("scenario")
	outDir, _ := cmd.Flags().GetString("out")

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	cfg := session.Config{
		CandidateName: name,
		Position:      position,
		Grade:         grade,
		Experience:    experience,
		ScenarioID:    scenario,
		OutDir:        outDir,
	}

	// The trainer works without a provider: classification falls back to
	// heuristics and questions come from the static bank.
	if providerCfg, err := llm.ResolveConfigFromEnv(); err != nil {
		fmt.Fprintln(os.Stderr, warnStyle.Render("LLM provider not configured: "+err.Error()))
		fmt.Fprintln(os.Stderr, warnStyle.Render("Running offline: heuristic classification and the static question bank only."))
	} else {
		provider, err := llm.NewProvider(ctx, providerCfg, st.EventRepo())
		if err != nil {
			return fmt.Errorf("initialize LLM provider: %w", err)
		}
		cfg.Provider = provider
		cfg.ProviderName = providerCfg.Provider
	}

	s := session.New(cfg)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, interviewerStyle.Render(s.FirstMessage(ctx)))
	fmt.Fprintln(out, promptStyle.Render("(ответь сообщением; /stop завершает интервью)"))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, promptStyle.Render("> "))
		if !scanner.Scan() {
			// EOF without /stop still produces a report.
			feedback, err := s.Finish()
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, reportStyle.Render(feedback))
			return scanner.Err()
		}

		msg := strings.TrimSpace(scanner.Text())
		if msg == "" {
			continue
		}

		reply, done, err := s.Step(ctx, msg)
		if err != nil {
			return err
		}
		if done {
			fmt.Fprintln(out)
			fmt.Fprintln(out, reportStyle.Render(reply))
			fmt.Fprintln(out, promptStyle.Render(fmt.Sprintf("Лог сохранён: interview_log_%d.json", scenario)))
			return nil
		}
		fmt.Fprintln(out, interviewerStyle.Render(reply))
	}
}
