// Package langguard keeps an agent's replies in the language the user
// writes in. It sits outside the model loop: classify the incoming
// message, classify the outgoing reply, and translate the reply when the
// two disagree.
//
// The guard is best effort by contract. A reply in the wrong language is
// a cosmetic defect, a lost reply is not, so every classification or
// translation failure falls back to passing text through unchanged.
package langguard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/flexigpt/agentgate-go/spec"
)

// DefaultLanguage is assumed when the user's language cannot be
// determined.
const DefaultLanguage = "en"

type Guard struct {
	classifier spec.LanguageClassifier
	translator spec.Translator
	logger     *slog.Logger

	mu           sync.Mutex
	userLanguage string
}

type Option func(*Guard) error

func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		g.logger = logger
		return nil
	}
}

// New builds a guard for one conversation. The classifier and translator
// are required.
func New(classifier spec.LanguageClassifier, translator spec.Translator, opts ...Option) (*Guard, error) {
	if classifier == nil {
		return nil, errors.New("nil language classifier")
	}
	if translator == nil {
		return nil, errors.New("nil translator")
	}
	g := &Guard{
		classifier:   classifier,
		translator:   translator,
		logger:       slog.Default(),
		userLanguage: DefaultLanguage,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// BeforeTurn records the language of the user's message and returns it.
// Unclassifiable input (numeric-only, symbols) falls back to the default
// language.
func (g *Guard) BeforeTurn(userMessage string) string {
	lang, err := g.classifier.Classify(userMessage)
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil || lang == "" {
		g.logger.Debug("user language not classified, using default", "error", err)
		g.userLanguage = DefaultLanguage
		return g.userLanguage
	}
	g.userLanguage = strings.ToLower(lang)
	return g.userLanguage
}

// AfterTurn returns the reply in the user's language, translating it when
// the reply's language disagrees. On any failure the original reply is
// returned.
func (g *Guard) AfterTurn(ctx context.Context, reply string) string {
	if strings.TrimSpace(reply) == "" {
		return reply
	}
	g.mu.Lock()
	target := g.userLanguage
	g.mu.Unlock()

	replyLang, err := g.classifier.Classify(reply)
	if err != nil || replyLang == "" {
		g.logger.Debug("reply language not classified, passing through", "error", err)
		return reply
	}
	if primarySubtag(replyLang) == primarySubtag(target) {
		return reply
	}

	translated, err := g.translator.Translate(ctx, reply, target)
	if err != nil {
		g.logger.Warn("reply translation failed, passing through",
			"from", replyLang, "to", target, "error", err)
		return reply
	}
	g.logger.Info("translated reply", "from", replyLang, "to", target)
	return translated
}

// primarySubtag reduces a language tag to its primary subtag, so "zh"
// and "zh-Hans" compare equal.
func primarySubtag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		return tag[:i]
	}
	return tag
}
