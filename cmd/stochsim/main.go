package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/catonlyprep/stochsim/internal/config"
	"github.com/catonlyprep/stochsim/internal/ensemble"
	"github.com/catonlyprep/stochsim/internal/experiment"
	"github.com/catonlyprep/stochsim/internal/store"
	"github.com/catonlyprep/stochsim/internal/tui"
	"github.com/catonlyprep/stochsim/internal/viz"
)

var (
	dataDir string
	dt      float64
	steps   int
	seed    int64
	x0      float64
	theta   float64
	sigma   float64
	noiseA  float64
	noiseB  float64
	rate    float64
	ampVar  float64

	configFile string
	preset     string

	runs      int
	frameRate int
	watch     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stochsim",
		Short: "jump-diffusion path simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".stochsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [process]",
		Short: "simulate a path and store it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	runCmd.Flags().BoolVar(&watch, "watch", false, "redraw the path while it runs")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "dump run data as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRunJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live [process]",
		Short: "step a process interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [process]",
		Short: "run a Monte-Carlo ensemble and print increment statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	addScenarioFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 100, "number of realizations")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets and processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("processes:")
			for _, name := range experiment.NewRegistry().ListProcesses() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, liveCmd, ensembleCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&x0, "x0", 0.0, "initial value (all components)")
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "mean-reversion rate")
	cmd.Flags().Float64Var(&sigma, "sigma", config.DefaultSigma, "diffusion coefficient")
	cmd.Flags().Float64Var(&noiseA, "a", 0.01, "additive noise floor (quadratic)")
	cmd.Flags().Float64Var(&noiseB, "b", 0.04, "multiplicative noise gain (quadratic)")
	cmd.Flags().Float64Var(&rate, "rate", 0.5, "jump rate (jump)")
	cmd.Flags().Float64Var(&ampVar, "ampvar", 0.04, "jump amplitude variance (jump)")
}

// buildScenario merges preset, config file, and flags; flags win when set
// explicitly.
func buildScenario(cmd *cobra.Command, process string) (*config.Scenario, error) {
	sc := config.DefaultScenario()
	sc.Process = process

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*sc = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
		sc = loaded
	}

	if preset == "" && configFile == "" || cmd.Flags().Changed("dt") {
		sc.Dt = dt
	}
	if preset == "" && configFile == "" || cmd.Flags().Changed("steps") {
		sc.Steps = steps
	}
	if cmd.Flags().Changed("seed") || sc.Seed == 0 {
		sc.Seed = seed
	}
	if cmd.Flags().Changed("x0") {
		sc.Initial = nil // resized below once the dimension is known
	}

	if sc.Params == nil {
		sc.Params = map[string]float64{}
	}
	for flag, val := range map[string]float64{
		"theta": theta, "sigma": sigma, "a": noiseA, "b": noiseB, "rate": rate, "ampvar": ampVar,
	} {
		if cmd.Flags().Changed(flag) {
			sc.Params[flag] = val
		}
	}

	return sc, nil
}

func buildExperiment(cmd *cobra.Command, process string) (*experiment.Experiment, *config.Scenario, error) {
	sc, err := buildScenario(cmd, process)
	if err != nil {
		return nil, nil, err
	}

	exp, err := experiment.FromScenario(sc, experiment.NewRegistry())
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("x0") {
		initial := make([]float64, exp.Process.Dim())
		for k := range initial {
			initial[k] = x0
		}
		exp.Config.Initial = initial
	}

	return exp, sc, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, sc, err := buildExperiment(cmd, args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if watch {
		exp.Simulator().AddObserver(viz.NewLiveRenderer(os.Stdout, sc.Process, frameRate))
	} else {
		fmt.Printf("running %s (%d steps, dt=%g)...\n", sc.Process, exp.Config.Steps, exp.Config.Dt)
	}
	start := time.Now()

	path, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(sc.Process, exp.Config, path)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n\n", len(path.States))

	for k, s := range exp.Summarize(path) {
		fmt.Printf("y%d: late mean %+.5f, late variance %.6f", k, s.Mean, s.Variance)
		if s.HasStationary {
			fmt.Printf(" (stationary %.6f)", s.StationaryVar)
		}
		fmt.Println()
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runList, err := st.List()
	if err != nil {
		return err
	}

	if len(runList) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROCESS\tTIME\tSTEPS\tDT\tDIM\tSEED")
	for _, run := range runList {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%d\t%d\n",
			run.ID,
			run.Process,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Dim,
			run.Seed,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	path, err := st.LoadPath(args[0])
	if err != nil {
		return err
	}
	if len(path.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\nprocess: %s\nsamples: %d\n\n", meta.ID, meta.Process, len(path.States))
	fmt.Print(viz.PlotPath(path))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportRunJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	path, err := st.LoadPath(args[0])
	if err != nil {
		return err
	}

	return store.ExportJSON(os.Stdout, meta, path)
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, sc, err := buildExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	return tui.Run(sc.Process, exp.Config)
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	exp, sc, err := buildExperiment(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("running %d realizations of %s...\n", runs, sc.Process)
	start := time.Now()

	paths, err := ensemble.New(runs, sc.Seed).Run(context.Background(), exp.Config)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	for k := 0; k < exp.Process.Dim(); k++ {
		incVar := ensemble.IncrementVariance(paths, k)
		mean, variance := ensemble.LateMoments(paths, k)
		fmt.Printf("y%d: increment variance %.8f, late mean %+.5f, late variance %.6f\n",
			k, incVar, mean, variance)
	}

	return nil
}
