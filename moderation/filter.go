package moderation

import (
	"log/slog"

	"workspace-chat/contract"

	"github.com/abadojack/whatlanggo"
)

// Filter is the content filter applied to message bodies before they are stored.
type Filter struct {
	moderator *Moderator
	log       *slog.Logger
}

var _ contract.ContentFilter = (*Filter)(nil)

func NewFilter(moderator *Moderator, log *slog.Logger) *Filter {
	return &Filter{moderator: moderator, log: log}
}

// NewDefaultFilter builds a Filter over the embedded dictionaries.
func NewDefaultFilter(censoredChar rune, log *slog.Logger) (*Filter, error) {
	data, err := NewCensoredLoader(Dictionaries).LoadAll(DictionaryDir)
	if err != nil {
		return nil, err
	}
	moderator, err := NewModerator(data.Words, censoredChar, log)
	if err != nil {
		return nil, err
	}
	log.Info("Censored dictionaries loaded", "languages", data.Languages, "words", len(data.Words))
	return NewFilter(moderator, log), nil
}

func (f *Filter) Filter(body string) contract.FilterResult {
	info := whatlanggo.Detect(body)
	lang := info.Lang.Iso6391()
	if !info.IsReliable() {
		lang = ""
	}
	sanitized, words := f.moderator.Censor(body)
	if len(words) > 0 {
		f.log.Debug("Message censored", "lang", lang, "words", len(words))
	}
	return contract.FilterResult{Body: sanitized, Lang: lang, Censored: words}
}
