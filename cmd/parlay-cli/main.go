// Command parlay-cli evaluates a parlay from flags, a JSON request or a
// share link and prints the results block.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/config"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/logger"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/report"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/internal/sharelink"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/models"
	"github.com/XavierBriggs/fortuna/services/parlay-builder/pkg/oddsmath"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type options struct {
	file      string
	share     string
	legs      legFlags
	mode      string
	source    string
	total     string
	totalFair string
	vig       float64
	stake     float64
	boost     float64
	policy    string
	showLegs  bool
	asJSON    bool
	showLink  bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level}); err != nil {
		return err
	}
	logger.Logger.SetOutput(os.Stderr)

	opts, visited, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}

	req, err := buildRequest(opts, visited, cfg, stdin)
	if err != nil {
		return err
	}

	calc := calculator.NewCalculator(cfg.Defaults.VigPolicy)
	resp := calc.Evaluate(req)

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printReport(stdout, resp)

	if opts.showLegs && len(resp.PerLeg) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, titleStyle.Render("Legs"))
		fmt.Fprintln(stdout, report.Legs(resp))
	}

	for _, hint := range calc.Validate(req) {
		where := hint.Field
		if hint.Leg != nil {
			where = fmt.Sprintf("leg %d %s", *hint.Leg+1, hint.Field)
		}
		logger.Logger.Warnf("%s: %s", where, hint.Message)
	}

	if opts.showLink {
		link, err := sharelink.URL(cfg.Share.BaseURL, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, mutedStyle.Render(link))
	}

	return nil
}

func parseFlags(args []string, cfg *config.Config) (*options, map[string]bool, error) {
	opts := &options{}
	fs := flag.NewFlagSet("parlay-cli", flag.ContinueOnError)

	fs.StringVar(&opts.file, "file", "", "JSON request file (\"-\" reads stdin)")
	fs.StringVar(&opts.share, "share", "", "share token or share URL to restore")
	fs.Var(&opts.legs, "leg", "leg as \"a=-110;b=-110;your=+100;fair=;label=...\" (repeatable)")
	fs.StringVar(&opts.mode, "mode", string(models.OddsModePerLeg), "odds mode: PER_LEG or TOTAL")
	fs.StringVar(&opts.source, "source", string(models.FairSourceSharp), "fair source: SHARP or MANUAL")
	fs.StringVar(&opts.total, "total", "", "total offered parlay odds (TOTAL mode)")
	fs.StringVar(&opts.totalFair, "total-fair", "", "total fair parlay odds (MANUAL + TOTAL)")
	fs.Float64Var(&opts.vig, "vig", cfg.Defaults.AssumedVigPct, "assumed vig % when sharp B is missing")
	fs.Float64Var(&opts.stake, "stake", cfg.Defaults.Stake, "stake")
	fs.Float64Var(&opts.boost, "boost", cfg.Defaults.BoostPct, "profit boost %")
	fs.StringVar(&opts.policy, "policy", "", "one-sided devig policy: DIVIDE or MULTIPLY")
	fs.BoolVar(&opts.showLegs, "legs", false, "print per-leg fair values")
	fs.BoolVar(&opts.asJSON, "json", false, "print the evaluation as JSON")
	fs.BoolVar(&opts.showLink, "link", false, "print a share link")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	visited := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { visited[f.Name] = true })

	return opts, visited, nil
}

// buildRequest picks the input source, then lets explicit flags override it
func buildRequest(opts *options, visited map[string]bool, cfg *config.Config, stdin io.Reader) (models.EvaluateRequest, error) {
	if opts.share == "" && opts.file == "" && len(opts.legs) == 0 {
		return cfg.NewRequest(), fmt.Errorf("no legs: pass -leg, -file or -share")
	}

	req := cfg.NewRequest()
	req.Legs = nil

	switch {
	case opts.share != "":
		restored, ok := restoreShare(opts.share, req)
		if !ok {
			return req, fmt.Errorf("share link could not be read")
		}
		req = restored

	case opts.file == "-":
		r, err := readRequest(stdin, req)
		if err != nil {
			return req, err
		}
		req = r

	case opts.file != "":
		f, err := os.Open(opts.file)
		if err != nil {
			return req, fmt.Errorf("failed to open request file: %w", err)
		}
		defer f.Close()

		r, err := readRequest(f, req)
		if err != nil {
			return req, err
		}
		req = r
	}

	if len(opts.legs) > 0 {
		req.Legs = opts.legs
	}
	if visited["mode"] {
		req.OddsMode = models.OddsMode(strings.ToUpper(opts.mode))
	}
	if visited["source"] {
		req.FairSource = models.FairSource(strings.ToUpper(opts.source))
	}
	if visited["total"] {
		req.TotalOffered = models.RawText(opts.total)
	}
	if visited["total-fair"] {
		req.TotalFair = models.RawText(opts.totalFair)
	}
	if visited["vig"] {
		req.AssumedVigPct = models.Number(opts.vig)
	}
	if visited["stake"] {
		req.Stake = models.Number(opts.stake)
	}
	if visited["boost"] {
		req.BoostPct = models.Number(opts.boost)
	}
	if visited["policy"] {
		req.VigPolicy = opts.policy
	}

	// A form always has at least one leg
	if len(req.Legs) == 0 {
		req.Legs = []models.LegInput{{}}
	}
	return req, nil
}

func printReport(w io.Writer, resp models.EvaluateResponse) {
	lines := strings.Split(report.Build(resp), "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			line = titleStyle.Render(line)
		case strings.HasPrefix(line, "Status: "):
			line = "Status: " + statusStyle(resp.Status).Render(string(resp.Status))
		}
		fmt.Fprintln(w, line)
	}
}

func statusStyle(status oddsmath.Status) lipgloss.Style {
	switch status {
	case oddsmath.StatusPositive:
		return successStyle
	case oddsmath.StatusNegative:
		return errorStyle
	case oddsmath.StatusNeutral:
		return warningStyle
	default:
		return mutedStyle
	}
}
