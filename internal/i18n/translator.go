package i18n

import (
	"embed"

	"go-gin-event-calendar/pkg/logger"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

var supported = []language.Tag{language.English, language.French}

// Localizer 依語系渲染訊息；找不到時回傳 key 本身
type Localizer interface {
	T(locale, key string, data map[string]any) string
	// Match 把 Accept-Language 之類的字串對應到支援的語系
	Match(acceptLanguage string) string
}

type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	tags            []language.Tag
	matcher         language.Matcher
}

// NewTranslator 無法解析 defaultLocale 時使用英文
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.en.toml", "active.fr.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logger.WithComponent("i18n").Error("failed to load message file", zap.String("file", file), zap.Error(err))
		}
	}

	// 預設語系放在第一個，無法比對時 matcher 會回傳它
	tags := []language.Tag{tag}
	for _, t := range supported {
		if t != tag {
			tags = append(tags, t)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		tags:            tags,
		matcher:         language.NewMatcher(tags),
	}
}

func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		logger.WithComponent("i18n").Warn("localize failed",
			zap.String("key", key),
			zap.Strings("locales", languages),
			zap.Error(err),
		)
		return key
	}
	return msg
}

func (t *Translator) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		tags = []language.Tag{t.defaultLanguage}
	}
	_, index, _ := t.matcher.Match(tags...)
	base, _ := t.tags[index].Base()
	return base.String()
}
