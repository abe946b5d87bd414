package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/survey"
	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/utils"
)

var (
	repFormat string
	repOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Load the survey and print cohort statistics",
	Long: `Load the survey responses and print every dashboard view: headline counts,
AI tool adoption per cohort, spend by tenure, majors, paid conversion, pain
points and the payment distribution.`,
	Example: `  surveydash report
  surveydash report --source responses.xlsx --format json --out dashboard.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		t, err := newLoader(c).Load(cmd.Context(), c.SurveySource())
		if err != nil {
			return err
		}
		d := survey.BuildDashboard(t)

		switch strings.ToLower(repFormat) {
		case "json":
			b, err := utils.PrettyJSON(d)
			if err != nil {
				return err
			}
			if repOut != "" {
				if err := utils.SafeWriteFile(repOut, b); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote dashboard to %s\n", repOut)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		case "table", "":
			if repOut != "" {
				return fmt.Errorf("--out requires --format json")
			}
			renderDashboard(cmd.OutOrStdout(), d)
			return nil
		default:
			return fmt.Errorf("unsupported --format: %s (use table|json)", repFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&repFormat, "format", "table", "output format: table|json")
	reportCmd.Flags().StringVarP(&repOut, "out", "o", "", "write JSON to this file instead of stdout")
}

func newTable(w io.Writer, title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(header)
	return t
}

func renderDashboard(w io.Writer, d *survey.Dashboard) {
	s := d.Stats
	st := newTable(w, "응답자 현황", table.Row{"총 응답자", "신입", "기존", "유료 결제"})
	st.AppendRow(table.Row{s.Total, s.Rookie, s.Veteran, fmt.Sprintf("%d%%", s.PaidRate)})
	st.Render()
	if s.Total == 0 {
		fmt.Fprintln(w, "(no responses yet)")
		return
	}

	for _, ch := range d.Charts {
		if len(ch.Rows) == 0 {
			continue
		}
		t := newTable(w, ch.Title, table.Row{"도구", "신입", "기존"})
		for _, r := range ch.Rows {
			t.AppendRow(table.Row{r.Name, fmt.Sprintf("%d%%", r.NewHire), fmt.Sprintf("%d%%", r.Veteran)})
		}
		t.Render()
	}

	if len(d.Tenure) > 0 {
		t := newTable(w, "근속연수별 유료 결제", table.Row{"근속", "응답자", "유료 결제", "평균 (만원)"})
		for _, ts := range d.Tenure {
			t.AppendRow(table.Row{ts.FullTenure, ts.Count, fmt.Sprintf("%d%%", ts.PaidRate), fmt.Sprintf("%.1f", ts.AvgPayment)})
		}
		t.Render()
	}

	if len(d.Majors) > 0 {
		t := newTable(w, "전공 분포", table.Row{"전공", "응답자"})
		for _, m := range d.Majors {
			t.AppendRow(table.Row{m.Name, m.Value})
		}
		t.Render()
	}

	for _, cat := range d.Conversion {
		t := newTable(w, cat.Category+" 유료 전환율", table.Row{"도구", "사용자", "유료", "전환율"})
		for _, cv := range cat.Data {
			t.AppendRow(table.Row{cv.Name, cv.Users, cv.Paid, fmt.Sprintf("%d%%", cv.Rate)})
		}
		t.Render()
	}

	if len(d.PainPoints.Top) > 0 {
		t := newTable(w, "귀찮은 업무 TOP 5", table.Row{"유형", "응답"})
		for _, p := range d.PainPoints.Top {
			t.AppendRow(table.Row{p.Name, p.Value})
		}
		t.Render()
	}

	if len(d.Payments) > 0 {
		t := newTable(w, "월 결제 금액 분포", table.Row{"구간", "응답자"})
		for _, p := range d.Payments {
			t.AppendRow(table.Row{p.FullName, p.Value})
		}
		t.Render()
	}
}
