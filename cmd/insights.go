package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/insight"
	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/utils"
)

var (
	insProvider    string
	insModel       string
	insOllamaHost  string
	insMaxTokens   int
	insEndpoint    string
	insPrintPrompt bool
	insBasic       bool
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate presentation insights from the survey with an LLM",
	Long: `Aggregate the survey and ask the configured model (Gemini by default) for
new-hire presentation insights. With --endpoint the request is sent to a
running "surveydash serve" instead, exactly as the web dashboard does.`,
	Example: `  surveydash insights
  surveydash insights --provider ollama --model llama3.1:8b-instruct
  surveydash insights --endpoint http://localhost:8080
  surveydash insights --print-prompt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("max-tokens") && insMaxTokens > 0 {
			c.MaxTokens = insMaxTokens
		}
		t, err := newLoader(c).Load(cmd.Context(), c.SurveySource())
		if err != nil {
			return err
		}
		req := insight.NewRequest(t)
		if insBasic {
			req.PaidRatio, req.YearlyPaid = nil, nil
		}
		out := cmd.OutOrStdout()

		if insPrintPrompt {
			if req.Stats.Total == 0 {
				return fmt.Errorf("no responses to build a prompt from")
			}
			p := insight.FormatPrompt(req)
			fmt.Fprintln(out, p)
			fmt.Fprintf(out, "(~%d tokens)\n", utils.CountTokens(p))
			return nil
		}

		if insEndpoint != "" {
			rc := insight.NewRemoteClient(insEndpoint, c.HTTPTimeout()+30*time.Second, logger.WithPrefix("remote"))
			fmt.Fprintln(out, rc.Fetch(cmd.Context(), req))
			return nil
		}

		g, err := newGenerator(c, runtimeOptions{ProviderFlag: insProvider, ModelFlag: insModel, OllamaHost: insOllamaHost})
		if err != nil {
			return err
		}
		resp := g.Generate(cmd.Context(), req)
		fmt.Fprintln(out, resp.Insights)
		if resp.Status != http.StatusOK {
			return fmt.Errorf("insight generation failed (status %d)", resp.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	f := insightsCmd.Flags()
	f.StringVar(&insProvider, "provider", "", "LLM provider: gemini|openrouter|ollama (overrides config)")
	f.StringVar(&insModel, "model", "", "model name (overrides config)")
	f.StringVar(&insOllamaHost, "ollama-host", "", "Ollama base URL (overrides config)")
	f.IntVar(&insMaxTokens, "max-tokens", 0, "max completion tokens (overrides config)")
	f.StringVar(&insEndpoint, "endpoint", "", "ask a running dashboard server instead of calling the model directly")
	f.BoolVar(&insPrintPrompt, "print-prompt", false, "print the prompt and exit without calling the model")
	f.BoolVar(&insBasic, "basic", false, "send only headline stats and the conversational AI chart")
}
