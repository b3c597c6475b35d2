// hero manages the localization resources of messages.ts/JSON frontends and
// .resx backends.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/translation-hero/hero/config"
	"github.com/translation-hero/hero/fileutil"
	"github.com/translation-hero/hero/i18n"
	"github.com/translation-hero/hero/langmeta"
	"github.com/translation-hero/hero/location"
	"github.com/translation-hero/hero/logging"
	"github.com/translation-hero/hero/store"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

// EnvRoot overrides the default of --root.
const EnvRoot = "HERO_ROOT"

var (
	rootDir  string
	logLevel string
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hero",
		Short: "Localization resource manager",
		Long: `hero: localization resource manager.

Finds the translation resources of a project, shows which keys are missing
translations, and adds, removes or updates single keys while leaving the
rest of every file byte-for-byte unchanged.

Locations:
  frontend   a directory with messages.ts and locales/<lang>.json
  project    a .csproj file; every root .resx it embeds is a location
  resource   a primary .resx file with its <name>.<lang>.resx satellites

Project settings live in .hero.yaml and scanned locations in hero.lock,
both in the --root directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" && !logging.SetLevel(logLevel) {
				return fmt.Errorf(i18n.T("unknown log level %q"), logLevel)
			}
			return nil
		},
	}

	defRoot := os.Getenv(EnvRoot)
	if defRoot == "" {
		defRoot = "."
	}

	// Global persistent flags, inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", defRoot, "Project root directory (holds .hero.yaml and hero.lock)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")

	root.AddCommand(
		newInitCmd(),
		newScanCmd(),
		newRescanCmd(),
		newLocationsCmd(),
		newForgetCmd(),
		newEntriesCmd(),
		newLanguagesCmd(),
		newAddCmd(),
		newRemoveCmd(),
		newUpdateCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	// .env is optional
	_ = godotenv.Load()
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hero version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Shared state
// ---------------------------------------------------------------------------

// app bundles what every command loads from --root.
type app struct {
	cfg   *config.HeroFile
	store *store.Store
	mgr   *location.Manager
	dry   *fileutil.DryRun
}

func loadApp(dryRun bool) (*app, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, err
	}
	st, err := store.Load(rootDir)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, store: st, mgr: location.New(location.SettingsFrom(cfg))}
	if dryRun {
		a.dry = fileutil.NewDryRun()
		a.mgr.Writer = a.dry
	}
	return a, nil
}

// record stores r, warning about source strings that changed since the
// previous scan of the same location.
func (a *app) record(r location.Result) {
	lang := a.cfg.DefaultLanguage
	if prev, ok := a.store.Get(r.Path); ok {
		if changed := prev.ChangedKeys(r.Source(lang)); len(changed) > 0 {
			logWarning(i18n.N("%s: %d source string changed since the last scan: %s",
				"%s: %d source strings changed since the last scan: %s", len(changed)),
				r.Name, len(changed), strings.Join(changed, ", "))
		}
	}
	a.store.Upsert(r.Record(lang, time.Now()))
}

// refresh rescans path after an edit and updates the stored records that
// cover it.
func (a *app) refresh(path string) error {
	results, err := a.mgr.Scan(path, "")
	if err != nil {
		return err
	}
	updated := false
	for _, r := range results {
		if prev, ok := a.store.Get(r.Path); ok {
			r.Name = prev.Name
			a.store.Upsert(r.Record(a.cfg.DefaultLanguage, time.Now()))
			updated = true
		}
	}
	if !updated {
		return nil
	}
	return a.store.Save()
}

func absPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return abs, nil
}

// ---------------------------------------------------------------------------
// init (write .hero.yaml)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .hero.yaml with the detected locations",
		Long: `Detect the locations under --root and write them to .hero.yaml.

Frontends are found by their messages.ts, backends by their .csproj files.
Directories such as node_modules, bin and obj are skipped. An existing
.hero.yaml is only replaced with --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.Path()); err == nil && !force {
				return fmt.Errorf(i18n.T("%s already exists (use --force to overwrite)"), cfg.Path())
			}
			absRoot, err := absPath(rootDir)
			if err != nil {
				return err
			}
			locs, err := config.Detect(absRoot, cfg.IgnoreMatcher())
			if err != nil {
				return err
			}
			cfg.Locations = cfg.Locations[:0]
			for _, l := range locs {
				rel, err := filepath.Rel(absRoot, l.Path)
				if err != nil {
					rel = l.Path
				}
				cfg.Locations = append(cfg.Locations, config.LocationSpec{Name: l.Name, Path: filepath.ToSlash(rel)})
				logInfo(i18n.T("Found %s location %s at %s"), l.Kind, l.Name, rel)
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			logSuccess(i18n.T("Wrote %s"), cfg.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .hero.yaml")
	return cmd
}

// ---------------------------------------------------------------------------
// scan / rescan
// ---------------------------------------------------------------------------

func newScanCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a location and record its counts",
		Long: `Reconcile the keys of a location with its translations, print a summary,
and record the location in hero.lock.

Without a path every location of .hero.yaml is scanned (or, without
declared locations, every detected one).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(false)
			if err != nil {
				return err
			}

			type job struct{ path, name string }
			var jobs []job
			if len(args) == 1 {
				p, err := absPath(args[0])
				if err != nil {
					return err
				}
				jobs = append(jobs, job{p, name})
			} else {
				locs, err := a.cfg.Resolve(rootDir)
				if err != nil {
					return err
				}
				if len(locs) == 0 {
					logWarning(i18n.T("No locations found under %s"), rootDir)
					return nil
				}
				for _, l := range locs {
					jobs = append(jobs, job{l.Path, l.Name})
				}
			}

			for _, j := range jobs {
				results, err := a.mgr.Scan(j.path, j.name)
				if err != nil {
					return err
				}
				for _, r := range results {
					printSummary(r)
					a.record(r)
				}
			}
			if err := a.store.Save(); err != nil {
				return err
			}
			logSuccess(i18n.T("Saved %s"), a.store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Location name (default: directory name)")
	return cmd
}

func newRescanCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "rescan [path...]",
		Short: "Recompute the counts of recorded locations",
		Long: `Rescan locations already recorded in hero.lock and update their counts.

With --all (or without paths) every recorded location is rescanned,
several at a time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(false)
			if err != nil {
				return err
			}

			var targets []*store.Location
			if all || len(args) == 0 {
				targets = a.store.List()
			} else {
				for _, arg := range args {
					p, err := absPath(arg)
					if err != nil {
						return err
					}
					loc, ok := a.store.Get(p)
					if !ok {
						return fmt.Errorf(i18n.T("%s is not a recorded location (run 'hero scan' first)"), p)
					}
					targets = append(targets, loc)
				}
			}
			if len(targets) == 0 {
				logInfo(i18n.T("No recorded locations"))
				return nil
			}

			results := make([][]location.Result, len(targets))
			g, _ := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.NumCPU())
			for i, loc := range targets {
				i, loc := i, loc
				g.Go(func() error {
					r, err := a.mgr.Scan(loc.Path, loc.Name)
					if err != nil {
						return fmt.Errorf("%s: %w", loc.Name, err)
					}
					results[i] = r
					return nil
				})
			}
			scanErr := g.Wait()

			for _, rs := range results {
				for _, r := range rs {
					printSummary(r)
					a.record(r)
				}
			}
			if err := a.store.Save(); err != nil {
				return err
			}
			return scanErr
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Rescan every recorded location")
	return cmd
}

func printSummary(r location.Result) {
	s := r.Summary
	percent := 100
	if s.Keys > 0 {
		percent = (s.Keys - s.Untranslated) * 100 / s.Keys
	}
	fmt.Fprintf(os.Stderr, "%-20s %-9s %6d keys %6d untranslated  %s\n",
		r.Name, r.Tag, s.Keys, s.Untranslated, progressBar(percent, 20))
}

// ---------------------------------------------------------------------------
// locations / forget
// ---------------------------------------------------------------------------

func newLocationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List recorded locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Load(rootDir)
			if err != nil {
				return err
			}
			locs := st.List()
			if len(locs) == 0 {
				logInfo(i18n.T("No recorded locations. Run 'hero scan' to add some."))
				return nil
			}

			fmt.Printf("%-20s %-9s %6s %13s  %-25s %s\n", "Name", "Tag", "Keys", "Untranslated", "Progress", "Path")
			fmt.Println(strings.Repeat("─", 100))
			for _, l := range locs {
				percent := 100
				if l.NumOfKeys > 0 {
					percent = (l.NumOfKeys - l.NumOfUntranslatedKeys) * 100 / l.NumOfKeys
				}
				fmt.Printf("%-20s %-9s %6d %13d  %s %s\n",
					l.Name, l.Tag, l.NumOfKeys, l.NumOfUntranslatedKeys, progressBar(percent, 20), l.Path)
			}
			return nil
		},
	}
}

func newForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <path>",
		Short: "Remove a location from hero.lock",
		Long:  `Remove a recorded location. Its files are not touched.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Load(rootDir)
			if err != nil {
				return err
			}
			p, err := absPath(args[0])
			if err != nil {
				return err
			}
			if !st.Remove(p) {
				return fmt.Errorf(i18n.T("%s is not a recorded location"), p)
			}
			if err := st.Save(); err != nil {
				return err
			}
			logSuccess(i18n.T("Forgot %s"), p)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// Display helpers
// ---------------------------------------------------------------------------

// progressBar renders a colored bar of width cells followed by the
// percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100

	color := colorRed
	switch {
	case percent >= 90:
		color = colorGreen
	case percent >= 50:
		color = colorYellow
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s%s%s %3d%%", color, bar, colorReset, percent)
}

// langFlag returns the flag emoji of a language's region, if any.
func langFlag(lang string) string {
	return langmeta.Resolve(lang).Flag
}

// langColumnWidth is the width of the widest language code.
func langColumnWidth(langs []string) int {
	w := 0
	for _, l := range langs {
		if len(l) > w {
			w = len(l)
		}
	}
	return w
}

// langCell renders a language code padded to width, prefixed by its flag.
func langCell(lang string, width int) string {
	flag := langFlag(lang)
	if flag == "" {
		flag = "  "
	}
	return fmt.Sprintf("%s %-*s", flag, width, lang)
}
