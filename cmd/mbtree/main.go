package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/avdwal/mbtree/internal/compose"
	"github.com/avdwal/mbtree/internal/config"
	"github.com/avdwal/mbtree/internal/mech"
	"github.com/avdwal/mbtree/internal/models"
	"github.com/avdwal/mbtree/internal/storage"
	"github.com/avdwal/mbtree/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	modelName  string
	groundKind string
	wheelKind  string
	tireKind   string
	withLoads  []string
	tireLoads  []string

	sweepCoord   string
	sweepFrom    float64
	sweepTo      float64
	sweepSamples int
	sweepRadius  float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mbtree",
		Short: "symbolic multibody model composer",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "assemble and define a model, save a build report",
		RunE:  buildModel,
	}
	addAssemblyFlags(buildCmd)

	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "print the symbol description table of a model",
		RunE:  describeModel,
	}
	addAssemblyFlags(describeCmd)

	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "print the component tree of a model",
		RunE:  printTree,
	}
	addAssemblyFlags(treeCmd)

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "browse a built model in the terminal",
		RunE:  exploreModel,
	}
	addAssemblyFlags(exploreCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list build reports",
		RunE:  listReports,
	}

	showCmd := &cobra.Command{
		Use:   "show [report_id]",
		Short: "show one build report",
		Args:  cobra.ExactArgs(1),
		RunE:  showReport,
	}

	componentsCmd := &cobra.Command{
		Use:   "components",
		Short: "list registered component kinds",
		RunE:  listComponents,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "plot the wheel center height over one coordinate",
		RunE:  sweepModel,
	}
	addAssemblyFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepCoord, "coord", "q4", "coordinate to sweep (q1..q5)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", -1.0, "sweep start (radians or meters)")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1.0, "sweep end")
	sweepCmd.Flags().IntVar(&sweepSamples, "samples", 120, "number of samples")
	sweepCmd.Flags().Float64Var(&sweepRadius, "radius", 1.0, "numeric wheel radius")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(buildCmd, describeCmd, treeCmd, exploreCmd, sweepCmd, listCmd, showCmd, componentsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addAssemblyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&modelName, "name", config.DefaultName, "model name")
	cmd.Flags().StringVar(&groundKind, "ground", "flat", "ground kind")
	cmd.Flags().StringVar(&wheelKind, "wheel", "knife_edge", "wheel kind")
	cmd.Flags().StringVar(&tireKind, "tire", "nonholonomic", "tire kind")
	cmd.Flags().StringSliceVar(&withLoads, "wheel-load", nil, "load group kinds on the wheel")
	cmd.Flags().StringSliceVar(&tireLoads, "tire-load", nil, "load group kinds on the tire")
}

// resolveConfig layers preset, config file and flags, later wins.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, err := config.Preset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	if cmd.Flags().Changed("name") {
		cfg.Name = modelName
	}
	if cmd.Flags().Changed("ground") {
		cfg.Ground.Kind = groundKind
	}
	if cmd.Flags().Changed("wheel") {
		cfg.Wheel.Kind = wheelKind
	}
	if cmd.Flags().Changed("tire") {
		cfg.Tire.Kind = tireKind
	}
	if cmd.Flags().Changed("wheel-load") {
		cfg.WheelLoads = nil
		for _, kind := range withLoads {
			cfg.WheelLoads = append(cfg.WheelLoads, config.ComponentConfig{Kind: kind, Name: kind})
		}
	}
	if cmd.Flags().Changed("tire-load") {
		cfg.TireLoads = nil
		for _, kind := range tireLoads {
			cfg.TireLoads = append(cfg.TireLoads, config.ComponentConfig{Kind: kind, Name: kind})
		}
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// define assembles the configured tree and runs all definition stages.
func define(cmd *cobra.Command) (*models.RollingDisc, *config.Config, *mech.System, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	disc, err := models.Assemble(cfg, models.NewRegistry())
	if err != nil {
		return nil, nil, nil, err
	}
	if err := disc.DefineAll(); err != nil {
		return nil, nil, nil, err
	}
	sys, err := compose.ToSystem(disc)
	if err != nil {
		return nil, nil, nil, err
	}
	return disc, cfg, sys, nil
}

func buildModel(cmd *cobra.Command, args []string) error {
	disc, cfg, sys, err := define(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	var groups []string
	for _, cc := range append(append([]config.ComponentConfig{}, cfg.WheelLoads...), cfg.TireLoads...) {
		groups = append(groups, cc.Kind)
	}
	report := storage.BuildReport{
		Name:       cfg.Name,
		Ground:     cfg.Ground.Kind,
		Wheel:      cfg.Wheel.Kind,
		Tire:       cfg.Tire.Kind,
		LoadGroups: groups,
		Counts: storage.Counts{
			Bodies:              len(sys.Bodies()),
			Coordinates:         len(sys.Coordinates()),
			Speeds:              len(sys.Speeds()),
			AuxiliarySpeeds:     len(sys.AuxiliarySpeeds()),
			Kdes:                len(sys.Kdes()),
			Loads:               len(sys.Loads()),
			Holonomic:           len(sys.HolonomicConstraints()),
			Nonholonomic:        len(sys.NonholonomicConstraints()),
			VelocityConstraints: len(sys.VelocityConstraints()),
		},
	}
	id, err := st.Save(report, compose.AllDescriptions(disc))
	if err != nil {
		return err
	}

	fmt.Printf("built %s (%s)\n\n", cfg.Name, id)
	printCounts(report.Counts)
	return nil
}

func printCounts(c storage.Counts) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "bodies\t%d\n", c.Bodies)
	fmt.Fprintf(w, "coordinates\t%d\n", c.Coordinates)
	fmt.Fprintf(w, "speeds\t%d\n", c.Speeds)
	fmt.Fprintf(w, "auxiliary speeds\t%d\n", c.AuxiliarySpeeds)
	fmt.Fprintf(w, "kdes\t%d\n", c.Kdes)
	fmt.Fprintf(w, "loads\t%d\n", c.Loads)
	fmt.Fprintf(w, "holonomic constraints\t%d\n", c.Holonomic)
	fmt.Fprintf(w, "nonholonomic constraints\t%d\n", c.Nonholonomic)
	fmt.Fprintf(w, "velocity constraints\t%d\n", c.VelocityConstraints)
	w.Flush()
}

func describeModel(cmd *cobra.Command, args []string) error {
	disc, _, _, err := define(cmd)
	if err != nil {
		return err
	}
	printSymbols(compose.AllDescriptions(disc))
	return nil
}

func printSymbols(desc map[string]string) {
	names := make([]string, 0, len(desc))
	for name := range desc {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "symbol\tdescription")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, desc[name])
	}
	w.Flush()
}

var (
	treeNodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	treeKindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func printTree(cmd *cobra.Command, args []string) error {
	disc, _, _, err := define(cmd)
	if err != nil {
		return err
	}
	renderNode(disc, "model", 0)
	return nil
}

func renderNode(c compose.Component, kind string, depth int) {
	fmt.Printf("%s%s %s\n", strings.Repeat("  ", depth),
		treeNodeStyle.Render(c.Name()), treeKindStyle.Render(kind))
	if m, ok := c.(interface{ Submodels() []compose.ModelComponent }); ok {
		for _, s := range m.Submodels() {
			renderNode(s, "model", depth+1)
		}
	}
	if m, ok := c.(interface{ Connections() []compose.ConnectionComponent }); ok {
		for _, cn := range m.Connections() {
			renderNode(cn, "connection", depth+1)
		}
	}
	if m, ok := c.(interface{ LoadGroups() []compose.LoadGroupComponent }); ok {
		for _, lg := range m.LoadGroups() {
			renderNode(lg, "load group", depth+1)
		}
	}
}

// sweepModel evaluates the wheel center height above the ground plane over
// a range of one coordinate and draws it as a terminal chart.
func sweepModel(cmd *cobra.Command, args []string) error {
	disc, cfg, _, err := define(cmd)
	if err != nil {
		return err
	}

	var swept mech.Sym
	found := false
	env := map[string]float64{}
	for _, q := range disc.Q() {
		env[q.String()] = 0
		if strings.HasSuffix(q.String(), "_"+sweepCoord) {
			swept = q
			found = true
		}
	}
	if !found {
		return fmt.Errorf("unknown coordinate: %s", sweepCoord)
	}
	env[disc.Disc().Radius().String()] = sweepRadius

	center := disc.Disc().Center()
	ground := disc.Ground()
	pos, err := center.PosFrom(ground.Origin())
	if err != nil {
		return err
	}
	height := pos.Dot(ground.Normal())

	if sweepSamples < 2 {
		sweepSamples = 2
	}
	data := make([]float64, sweepSamples)
	step := (sweepTo - sweepFrom) / float64(sweepSamples-1)
	for i := range data {
		env[swept.String()] = sweepFrom + float64(i)*step
		v, err := mech.Eval(height, env)
		if err != nil {
			return err
		}
		data[i] = v
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s center height, %s in [%g, %g]",
			cfg.Name, swept, sweepFrom, sweepTo)),
	)
	fmt.Println(graph)
	return nil
}

func exploreModel(cmd *cobra.Command, args []string) error {
	disc, cfg, _, err := define(cmd)
	if err != nil {
		return err
	}
	return tui.Run(cfg.Name, disc)
}

func listReports(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	reports, err := st.List()
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println("no build reports")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "id\tmodel\ttime\tcoords\tspeeds\taux")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.Name, r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Counts.Coordinates, r.Counts.Speeds, r.Counts.AuxiliarySpeeds)
	}
	return w.Flush()
}

func showReport(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	report, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", report.Name, report.ID)
	fmt.Printf("built %s\n", report.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("ground=%s wheel=%s tire=%s", report.Ground, report.Wheel, report.Tire)
	if len(report.LoadGroups) > 0 {
		fmt.Printf(" loads=%s", strings.Join(report.LoadGroups, ","))
	}
	fmt.Println()
	fmt.Println()
	printCounts(report.Counts)

	symbols, err := st.LoadSymbols(report.ID)
	if err == nil && len(symbols) > 0 {
		fmt.Println()
		printSymbols(symbols)
	}
	return nil
}

func listComponents(cmd *cobra.Command, args []string) error {
	reg := models.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "grounds\t%s\n", strings.Join(reg.ListGrounds(), ", "))
	fmt.Fprintf(w, "wheels\t%s\n", strings.Join(reg.ListWheels(), ", "))
	fmt.Fprintf(w, "tires\t%s\n", strings.Join(reg.ListTires(), ", "))
	fmt.Fprintf(w, "load groups\t%s\n", strings.Join(reg.ListLoadGroups(), ", "))
	return w.Flush()
}
