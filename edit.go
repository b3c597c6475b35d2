package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/translation-hero/hero/i18n"
	"github.com/translation-hero/hero/langmeta"
	"github.com/translation-hero/hero/reconcile"
	"github.com/translation-hero/hero/store"
	"github.com/translation-hero/hero/watch"
)

// ---------------------------------------------------------------------------
// entries / languages (read-only)
// ---------------------------------------------------------------------------

func newEntriesCmd() *cobra.Command {
	var (
		asJSON       bool
		untranslated bool
	)

	cmd := &cobra.Command{
		Use:   "entries <path>",
		Short: "Print the keys of a location with their translations",
		Long: `Print every key of a location with its value in each language.

With --untranslated only keys that no language other than the default one
translates are printed. --json prints the entries as a JSON array.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(false)
			if err != nil {
				return err
			}
			p, err := absPath(args[0])
			if err != nil {
				return err
			}
			entries, err := a.mgr.Entries(p)
			if err != nil {
				return err
			}
			if untranslated {
				entries = reconcile.Untranslated(entries, a.cfg.DefaultLanguage)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				if entries == nil {
					entries = []reconcile.TranslationEntry{}
				}
				return enc.Encode(entries)
			}
			printEntries(entries, a.cfg.DefaultLanguage)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&untranslated, "untranslated", false, "Only keys without translations")
	return cmd
}

// printEntries prints one block per entry with the default language
// first and the others sorted.
func printEntries(entries []reconcile.TranslationEntry, defaultLang string) {
	langs := orderLanguages(reconcile.Languages(entries), defaultLang)
	width := langColumnWidth(langs)

	for _, e := range entries {
		head := e.Key
		if e.Value != e.Key {
			head += " → " + e.Value
		}
		if !e.InUse {
			head += colorYellow + " " + i18n.T("(unused)") + colorReset
		}
		fmt.Println(head)
		for _, lang := range langs {
			v := e.Translations[lang]
			if strings.TrimSpace(v) == "" {
				v = colorRed + "—" + colorReset
			}
			fmt.Printf("  %s  %s\n", langCell(lang, width), v)
		}
	}
	if len(entries) > 0 {
		fmt.Fprintln(os.Stderr)
	}
	logInfo(i18n.N("%d key", "%d keys", len(entries)), len(entries))
}

// orderLanguages puts defaultLang first.
func orderLanguages(langs []string, defaultLang string) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if l == defaultLang {
			out = append([]string{l}, out...)
			continue
		}
		out = append(out, l)
	}
	return out
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages <path>",
		Short: "Print the languages of a location",
		Long: `Print the languages of a location: the language catalog
(locales/locales.ts) of a frontend, or the default language and the
satellite languages of a backend.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(false)
			if err != nil {
				return err
			}
			p, err := absPath(args[0])
			if err != nil {
				return err
			}
			langs, err := a.mgr.Languages(p)
			if err != nil {
				return err
			}
			width := langColumnWidth(langs)
			for _, l := range langs {
				fmt.Printf("%s  %s\n", langCell(l, width), langmeta.Resolve(l).Name)
			}
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// add / remove / update
// ---------------------------------------------------------------------------

// finishEdit prints the dry-run diff or refreshes the stored counts.
func (a *app) finishEdit(path string) error {
	if a.dry != nil {
		if err := a.dry.WriteDiff(os.Stdout); err != nil {
			return err
		}
		logInfo(i18n.N("Dry run: %d file would change", "Dry run: %d files would change", len(a.dry.Changes())), len(a.dry.Changes()))
		return nil
	}
	return a.refresh(path)
}

func newAddCmd() *cobra.Command {
	var (
		resourceKey string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "add <path> <key> <value>",
		Short: "Add a key",
		Long: `Add a key with its default-language value.

In a frontend the key is added to messages.ts, mapped to --resource-key
(the key itself by default), and the value is written to the default
language's locale file. With translate_new_strings the translation command
runs afterwards. In a .resx file the entry goes to the primary file.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(dryRun)
			if err != nil {
				return err
			}
			p, err := absPath(args[0])
			if err != nil {
				return err
			}
			if err := a.mgr.Add(cmd.Context(), p, args[1], resourceKey, args[2]); err != nil {
				return err
			}
			if a.dry == nil {
				logSuccess(i18n.T("Added %s"), args[1])
			}
			return a.finishEdit(p)
		},
	}

	cmd.Flags().StringVar(&resourceKey, "resource-key", "", "Key used in the locale files (frontend only)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print a diff instead of writing")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "remove <path> <key>...",
		Short: "Remove keys",
		Long: `Remove keys from a location.

In a frontend the keys are removed from messages.ts and their resource keys
from every locale file. In a .resx file they are removed from the primary
file and every satellite.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(dryRun)
			if err != nil {
				return err
			}
			p, err := absPath(args[0])
			if err != nil {
				return err
			}
			keys := args[1:]
			if err := a.mgr.Remove(p, keys); err != nil {
				return err
			}
			if a.dry == nil {
				logSuccess(i18n.N("Removed %d key", "Removed %d keys", len(keys)), len(keys))
			}
			return a.finishEdit(p)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print a diff instead of writing")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var (
		sets   []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "update <path> <key> --set lang=value...",
		Short: "Update the values of a key",
		Long: `Set the value of a key in one or more languages.

  hero update web greeting --set en-GB=Hello --set de-DE=Hallo

In a frontend, updating only the default language with
translate_updated_strings enabled drops the other translations and runs
the translation command.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseSets(sets)
			if err != nil {
				return err
			}
			a, err := loadApp(dryRun)
			if err != nil {
				return err
			}
			p, err := absPath(args[0])
			if err != nil {
				return err
			}
			if err := a.mgr.Update(cmd.Context(), p, args[1], values); err != nil {
				return err
			}
			if a.dry == nil {
				logSuccess(i18n.T("Updated %s"), args[1])
			}
			return a.finishEdit(p)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Value as lang=value (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print a diff instead of writing")
	_ = cmd.MarkFlagRequired("set")
	return cmd
}

// parseSets turns lang=value pairs into a map. The value may contain '='.
func parseSets(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		lang, value, ok := strings.Cut(s, "=")
		lang = strings.TrimSpace(lang)
		if !ok || lang == "" {
			return nil, fmt.Errorf(i18n.T("invalid --set %q: want lang=value"), s)
		}
		if _, dup := values[lang]; dup {
			return nil, fmt.Errorf(i18n.T("language %s given twice"), lang)
		}
		values[lang] = value
	}
	return values, nil
}

// ---------------------------------------------------------------------------
// watch
// ---------------------------------------------------------------------------

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [path...]",
		Short: "Rescan locations whenever their files change",
		Long: `Watch locations and update hero.lock whenever one of their files changes.

Without paths every recorded location is watched. Stop with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(false)
			if err != nil {
				return err
			}

			names := storedNames(a.store)
			var paths []string
			if len(args) == 0 {
				for p := range names {
					paths = append(paths, p)
				}
			} else {
				for _, arg := range args {
					p, err := absPath(arg)
					if err != nil {
						return err
					}
					paths = append(paths, p)
				}
			}
			if len(paths) == 0 {
				return errors.New(i18n.T("nothing to watch: pass a path or run 'hero scan' first"))
			}
			sort.Strings(paths)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			w := &watch.Watcher{
				Ignore: a.cfg.IgnoreMatcher(),
				OnChange: func(loc string) {
					results, err := a.mgr.Scan(loc, names[loc])
					if err != nil {
						logError("%v", err)
						return
					}
					for _, r := range results {
						printSummary(r)
						a.record(r)
					}
					if err := a.store.Save(); err != nil {
						logError("%v", err)
					}
				},
			}
			logInfo(i18n.N("Watching %d location (Ctrl+C to stop)", "Watching %d locations (Ctrl+C to stop)", len(paths)), len(paths))
			return w.Run(ctx, paths)
		},
	}
}

// storedNames maps the paths of recorded locations to their names.
func storedNames(st *store.Store) map[string]string {
	out := make(map[string]string)
	for _, l := range st.List() {
		out[l.Path] = l.Name
	}
	return out
}
