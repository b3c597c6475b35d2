package location

import (
	"context"
	"errors"
	"io/fs"
	"sort"

	"github.com/translation-hero/hero/discovery"
	"github.com/translation-hero/hero/errs"
	"github.com/translation-hero/hero/fileutil"
	"github.com/translation-hero/hero/jsonlocale"
	"github.com/translation-hero/hero/objlit"
	"github.com/translation-hero/hero/ordmap"
	"github.com/translation-hero/hero/reconcile"
)

// frontendEntries reconciles messages.ts with every locale file.
func (m *Manager) frontendEntries(root string) ([]reconcile.TranslationEntry, error) {
	messages, err := objlit.ParseFile(discovery.MessagesFile.Join(root))
	if err != nil {
		return nil, err
	}
	files, err := discovery.LocaleFiles(discovery.LocalesDir.Join(root))
	if err != nil {
		return nil, errs.Wrap(errs.IO, "scan", root, err)
	}

	perLanguage := make(map[string]map[string]string, len(files))
	for _, f := range files {
		values, err := jsonlocale.Values(f)
		if err != nil {
			return nil, err
		}
		perLanguage[discovery.LanguageFromFile(f)] = values
	}
	log().Debug("scanned frontend", "path", root, "keys", messages.Len(), "languages", len(perLanguage))
	return reconcile.Reconcile(messages, perLanguage), nil
}

// frontendLanguages reads locales/locales.ts, falling back to the names of
// the locale files when there is no catalog.
func frontendLanguages(root string) ([]string, error) {
	langs, err := objlit.ReadLanguageCatalogFile(discovery.LanguageCatalog.Join(root))
	if err == nil {
		return langs, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	files, err := discovery.LocaleFiles(discovery.LocalesDir.Join(root))
	if err != nil {
		return nil, errs.Wrap(errs.IO, "languages", root, err)
	}
	langs = make([]string, 0, len(files))
	for _, f := range files {
		langs = append(langs, discovery.LanguageFromFile(f))
	}
	sort.Strings(langs)
	return langs, nil
}

// resourceKeys maps code keys to resource keys through messages.ts. An
// unknown key is a NotFound error.
func resourceKeys(op string, messages *ordmap.Map, path string, keys []string) ([]string, error) {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := messages.Get(k)
		if !ok {
			return nil, errs.Wrap(errs.NotFound, op, path, errors.New("key "+k+" not found"))
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *Manager) addFrontend(ctx context.Context, root, key, resourceKey, value string) error {
	if resourceKey == "" {
		resourceKey = key
	}
	messages, err := prepare("add", discovery.MessagesFile.Join(root), func(data []byte) ([]byte, error) {
		return objlit.InsertEntry(data, key, resourceKey)
	})
	if err != nil {
		return err
	}
	locale, err := prepare("add", discovery.DefaultLanguageFile(m.defaultLang()).Join(root), func(data []byte) ([]byte, error) {
		return jsonlocale.AppendEntry(data, resourceKey, value)
	})
	if err != nil {
		return err
	}
	if err := m.commit("add", []pending{messages, locale}); err != nil {
		return err
	}
	log().Info("added key", "path", root, "key", key, "resource_key", resourceKey)

	if m.Settings.TranslateNewStrings {
		return m.translate(ctx, root)
	}
	return nil
}

func (m *Manager) removeFrontend(root string, keys []string) error {
	messagesPath := discovery.MessagesFile.Join(root)
	messages, err := objlit.ParseFile(messagesPath)
	if err != nil {
		return err
	}
	resKeys, err := resourceKeys("remove", messages, messagesPath, keys)
	if err != nil {
		return err
	}
	edited, err := prepare("remove", messagesPath, func(data []byte) ([]byte, error) {
		return objlit.RemoveKeys(data, keys)
	})
	if err != nil {
		return err
	}
	if err := jsonlocale.RemoveKeysDir(discovery.LocalesDir.Join(root), resKeys, m.writer()); err != nil {
		return err
	}
	if err := m.commit("remove", []pending{edited}); err != nil {
		return err
	}
	log().Info("removed keys", "path", root, "keys", len(keys))
	return nil
}

func (m *Manager) updateFrontend(ctx context.Context, root, key string, values map[string]string) error {
	messagesPath := discovery.MessagesFile.Join(root)
	messages, err := objlit.ParseFile(messagesPath)
	if err != nil {
		return err
	}
	resKeys, err := resourceKeys("update", messages, messagesPath, []string{key})
	if err != nil {
		return err
	}
	resKey := resKeys[0]

	files, err := discovery.LocaleFiles(discovery.LocalesDir.Join(root))
	if err != nil {
		return errs.Wrap(errs.IO, "update", root, err)
	}
	byLang := make(map[string]string, len(files))
	for _, f := range files {
		byLang[discovery.LanguageFromFile(f)] = f
	}
	for lang := range values {
		if _, ok := byLang[lang]; !ok {
			return errs.Wrap(errs.NotFound, "update", discovery.LanguageFile(lang).Join(root),
				errors.New("no locale file for language "+lang))
		}
	}

	def := m.defaultLang()
	if text, ok := values[def]; ok && len(values) == 1 && m.Settings.TranslateUpdatedStrings {
		return m.retranslate(ctx, root, files, def, resKey, text)
	}

	var changes []pending
	for _, f := range files {
		text, ok := values[discovery.LanguageFromFile(f)]
		if !ok {
			continue
		}
		p, err := prepare("update", f, func(data []byte) ([]byte, error) {
			out, err := jsonlocale.UpdateKey(data, resKey, text)
			if errs.Is(err, errs.NotFound) {
				return jsonlocale.AppendEntry(data, resKey, text)
			}
			return out, err
		})
		if err != nil {
			return err
		}
		changes = append(changes, p)
	}
	if err := m.commit("update", changes); err != nil {
		return err
	}
	log().Info("updated key", "path", root, "key", key, "languages", len(changes))
	return nil
}

// retranslate drops every translation of resKey, writes the new default
// text and runs the translation command to fill the other languages in.
func (m *Manager) retranslate(ctx context.Context, root string, files []string, def, resKey, text string) error {
	changes := make([]pending, 0, len(files))
	for _, f := range files {
		isDefault := discovery.LanguageFromFile(f) == def
		p, err := prepare("update", f, func(data []byte) ([]byte, error) {
			out, err := jsonlocale.RemoveKeys(data, []string{resKey})
			if err != nil || !isDefault {
				return out, err
			}
			return jsonlocale.AppendEntry(out, resKey, text)
		})
		if err != nil {
			return err
		}
		changes = append(changes, p)
	}
	if err := m.commit("update", changes); err != nil {
		return err
	}
	log().Info("retranslating key", "path", root, "resource_key", resKey)
	return m.translate(ctx, root)
}

// translate runs the translation command on the locales directory. Dry
// runs skip it.
func (m *Manager) translate(ctx context.Context, root string) error {
	if _, dry := m.Writer.(*fileutil.DryRun); dry {
		log().Info("dry run: skipping translation command", "path", root)
		return nil
	}
	return m.runner().Run(ctx, root, m.Settings.TranslationCommand, discovery.LocalesDir.Join(root))
}
