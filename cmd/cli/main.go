package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"fv-simulator/internal/chart"
	"fv-simulator/internal/config"
	"fv-simulator/internal/data"
	"fv-simulator/internal/engine"
	"fv-simulator/internal/model"
	"fv-simulator/internal/report"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "calculate":
		err = cmdCalculate(os.Args[2:])
	case "view":
		err = cmdView(os.Args[2:])
	case "export":
		err = cmdExport(os.Args[2:])
	case "chart":
		err = cmdChart(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, engine.UserMessage(err))
		fmt.Fprintf(os.Stderr, "  (%v)\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli calculate --config configs/simulator.yaml --out results/bundle.json")
	fmt.Println("  cli view --bundle results/bundle.json --benefits")
	fmt.Println("  cli export --bundle results/bundle.json --format pdf --leasing --out results/")
	fmt.Println("  cli chart --bundle results/bundle.json --out results/chart.png")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - without --bundle, view/export/chart call the calculator with the configured params")
	fmt.Println("  - --benefits and --leasing pick one of the four scenarios")
}

// common holds the flags shared by every subcommand that works on a view.
type common struct {
	cfgPath  *string
	bundle   *string
	benefits *bool
	leasing  *bool
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		cfgPath:  fs.String("config", "", "Path to YAML config (optional)"),
		bundle:   fs.String("bundle", "", "Saved calculator response JSON (optional)"),
		benefits: fs.Bool("benefits", false, "Show the scenario with tax benefits"),
		leasing:  fs.Bool("leasing", false, "Show the leasing scenario"),
	}
}

func (f common) config() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(*f.cfgPath)
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger()
	// Keep stdout for command output.
	logger.SetOutput(os.Stderr)
	if os.Getenv("LOG_LEVEL") == "" {
		logger.SetLevel(logrus.WarnLevel)
	}
	return cfg, logger, nil
}

// open loads the bundle, builds an engine for it and applies the toggles.
func (f common) open() (*engine.Engine, *config.Config, error) {
	cfg, logger, err := f.config()
	if err != nil {
		return nil, nil, err
	}

	var b *model.Bundle
	if *f.bundle != "" {
		b, err = data.LoadBundleJSON(*f.bundle)
	} else {
		calc := data.NewCalculatorClient(cfg.Calculator.BaseURL, cfg.Calculator.Timeout, logger)
		b, err = calc.Calculate(context.Background(), cfg.Params)
	}
	if err != nil {
		return nil, nil, err
	}

	surface := chart.NewCanvas(cfg.Chart.Width, cfg.Chart.Height)
	e := engine.New(chart.NewRenderer(surface, cfg.ChartOptions()), report.NewExporter(cfg.Formatter(), cfg.Report), logger)
	if _, err := e.Load(b); err != nil {
		return nil, nil, err
	}
	if _, err := e.Select(model.Selection{WithBenefits: *f.benefits, WithLeasing: *f.leasing}); err != nil {
		return nil, nil, err
	}
	return e, cfg, nil
}

func cmdCalculate(args []string) error {
	fs := flag.NewFlagSet("calculate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	outPath := fs.String("out", "results/bundle.json", "Where to save the calculator response")
	_ = fs.Parse(args)

	cfg, logger, err := common{cfgPath: cfgPath}.config()
	if err != nil {
		return err
	}
	calc := data.NewCalculatorClient(cfg.Calculator.BaseURL, cfg.Calculator.Timeout, logger)
	raw, err := calc.Fetch(context.Background(), cfg.Params)
	if err != nil {
		return err
	}
	b, err := model.DecodeBundle(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", data.ErrMalformedResponse, err)
	}

	if err := writeFile(*outPath, raw); err != nil {
		return err
	}
	fmt.Printf("Wrote calculator response (%d years) to %s\n", b.Horizon(), *outPath)
	return nil
}

func cmdView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	f := commonFlags(fs)
	_ = fs.Parse(args)

	e, cfg, err := f.open()
	if err != nil {
		return err
	}
	defer e.Close()
	v, _ := e.View()
	printView(os.Stdout, v, cfg.Formatter())
	return nil
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	f := commonFlags(fs)
	format := fs.String("format", "pdf", "pdf or csv")
	outDir := fs.String("out", "results", "Output directory")
	_ = fs.Parse(args)

	e, _, err := f.open()
	if err != nil {
		return err
	}
	defer e.Close()

	var out []byte
	var name string
	switch strings.ToLower(*format) {
	case "pdf":
		out, name, err = e.ExportPDF()
	case "csv":
		out, name, err = e.ExportCSV()
	default:
		return fmt.Errorf("unknown format %q (want pdf or csv)", *format)
	}
	if err != nil {
		return err
	}

	path := filepath.Join(*outDir, name)
	if err := writeFile(path, out); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d bytes)\n", path, len(out))
	return nil
}

func cmdChart(args []string) error {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	f := commonFlags(fs)
	outPath := fs.String("out", "results/chart.png", "Output PNG path")
	_ = fs.Parse(args)

	e, _, err := f.open()
	if err != nil {
		return err
	}
	defer e.Close()

	png, err := e.ChartPNG()
	if err != nil {
		return err
	}
	if err := writeFile(*outPath, png); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", *outPath)
	return nil
}

func printView(w io.Writer, v engine.View, format report.Formatter) {
	fmt.Fprintf(w, "Escenario: %s\n", v.Scenario.Label())
	fmt.Fprintf(w, "VPN:       %s\n", format(v.Indicators.NetPresentValue))
	if irr := v.Indicators.InternalRateOfReturn; irr != nil {
		fmt.Fprintf(w, "TIR:       %.2f %%\n", *irr)
	} else {
		fmt.Fprintln(w, "TIR:       No recupera")
	}
	if pb := v.Indicators.PaybackYear; pb != nil {
		fmt.Fprintf(w, "Payback:   Año %g\n", *pb)
	} else {
		fmt.Fprintln(w, "Payback:   No recupera")
	}

	s := v.Summary
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Ingreso total año 1:  %s\n", format(s.TotalIncome))
	fmt.Fprintf(w, "Autoconsumo año 1:    %s\n", format(s.SelfConsumption))
	fmt.Fprintf(w, "Excedente 1 año 1:    %s\n", format(s.Surplus1))
	fmt.Fprintf(w, "Excedente 2 año 1:    %s\n", format(s.Surplus2))
	if s.TotalTaxBenefit != nil {
		fmt.Fprintf(w, "Beneficio depreciación: %s\n", format(*s.DepreciationBenefit))
		fmt.Fprintf(w, "Beneficio renta:        %s\n", format(*s.IncomeTaxBenefit))
		fmt.Fprintf(w, "Beneficio total:        %s\n", format(*s.TotalTaxBenefit))
	}
	fmt.Fprintln(w, "")

	header, body := report.Cells(v.Table, format)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, row := range body {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	_ = tw.Flush()
}

func writeFile(path string, b []byte) error {
	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
