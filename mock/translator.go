package mock

import (
	"context"

	edurag "github.com/Leenamgyo/EduRAG"
)

var _ edurag.Translator = (*Translator)(nil)

// Translator is a mock implementation of edurag.Translator.
type Translator struct {
	TranslateFn func(ctx context.Context, text, target string) (string, error)
}

func (t *Translator) Translate(ctx context.Context, text, target string) (string, error) {
	return t.TranslateFn(ctx, text, target)
}
