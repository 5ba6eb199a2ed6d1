package classifier

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// encoding - словарь BPE для подсчёта токенов промпта
const encoding = "cl100k_base"

// Накладные токены на роль и разделители каждого сообщения
const tokensPerMessage = 4

func init() {
	// Словари встроены в бинарник, сеть не нужна
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Budget ограничивает размер промпта в токенах.
// Счёт приблизительный для не-OpenAI моделей, но порядок величины верный.
type Budget struct {
	tk  *tiktoken.Tiktoken
	max int
}

// NewBudget загружает словарь и создаёт бюджет на max токенов
func NewBudget(max int) (*Budget, error) {
	tk, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding %q: %w", encoding, err)
	}
	return &Budget{tk: tk, max: max}, nil
}

// Count считает токены в сообщениях
func (b *Budget) Count(messages ...string) int {
	total := 0
	for _, m := range messages {
		total += len(b.tk.Encode(m, nil, nil)) + tokensPerMessage
	}
	return total
}

// Check возвращает ErrInputTooLarge, если сообщения не влезают в бюджет
func (b *Budget) Check(messages ...string) error {
	if n := b.Count(messages...); n > b.max {
		return fmt.Errorf("%w: %d tokens, limit %d", ErrInputTooLarge, n, b.max)
	}
	return nil
}
