// Package i18n provides the localized strings shown by wordbubble.
package i18n

import (
	"embed"
	"fmt"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Message IDs.
const (
	MsgAlreadyRunning     = "AlreadyRunning"
	MsgBindFailed         = "BindFailed"
	MsgWindowTitle        = "WindowTitle"
	MsgPlay               = "Play"
	MsgPause              = "Pause"
	MsgDarkMode           = "DarkMode"
	MsgSelectedList       = "SelectedList"
	MsgNoListSelected     = "NoListSelected"
	MsgNoListsFound       = "NoListsFound"
	MsgListExists         = "ListExists"
	MsgImportListInvalid  = "ImportListInvalid"
	MsgImportListEmpty    = "ImportListEmpty"
	MsgImportFontInvalid  = "ImportFontInvalid"
	MsgFontExists         = "FontExists"
	MsgPreviewWord        = "PreviewWord"
	MsgPreviewMeaning     = "PreviewMeaning"
	MsgPlayModeRandom     = "PlayModeRandom"
	MsgPlayModeSequential = "PlayModeSequential"
	MsgPosition           = "Position"
	MsgInterval           = "Interval"
	MsgDuration           = "Duration"
	MsgPlayMode           = "PlayMode"
	MsgImportList         = "ImportList"
	MsgImportFont         = "ImportFont"
	MsgReplace            = "Replace"
	MsgQuit               = "Quit"
)

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

func loadBundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("toml", toml.Unmarshal)
		for _, name := range []string{"locales/active.en.toml", "locales/active.fa.toml"} {
			if _, err := b.LoadMessageFileFS(localeFS, name); err != nil {
				bundleErr = fmt.Errorf("failed to load %s: %w", name, err)
				return
			}
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Localizer translates message IDs into one language.
type Localizer struct {
	tag       language.Tag
	localizer *i18n.Localizer
}

// New returns a localizer for lang. Unsupported languages get English.
func New(lang string) *Localizer {
	b, err := loadBundle()
	if err != nil {
		// Embedded files are fixed at build time; T falls back to message IDs.
		return &Localizer{tag: language.English}
	}

	tags := b.LanguageTags()
	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, conf := language.NewMatcher(tags).Match(parsed)
		if conf != language.No {
			tag = tags[idx]
		}
	}

	return &Localizer{
		tag:       tag,
		localizer: i18n.NewLocalizer(b, tag.String()),
	}
}

// Language returns the resolved language code.
func (l *Localizer) Language() string {
	base, _ := l.tag.Base()
	return base.String()
}

// T returns the translation for id, or id itself when it has none.
func (l *Localizer) T(id string, data map[string]any) string {
	if l.localizer == nil {
		return id
	}
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

// Supported returns the language codes with translations.
func Supported() []string {
	b, err := loadBundle()
	if err != nil {
		return []string{"en"}
	}
	var codes []string
	for _, tag := range b.LanguageTags() {
		base, _ := tag.Base()
		codes = append(codes, base.String())
	}
	return codes
}
