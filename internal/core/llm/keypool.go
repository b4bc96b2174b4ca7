package llm

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/cybermozhi/cybermozhi-server/internal/core/apperr"
)

// Cursor is the process-wide rotation position over the credential pool.
// It is an explicit, injectable counter so tests can seed and inspect it.
// The cursor only affects load distribution, never correctness: every
// credential is equally valid.
type Cursor struct {
	mu sync.Mutex
	n  int
}

func NewCursor() *Cursor {
	return &Cursor{}
}

// Seed sets the absolute cursor position.
func (c *Cursor) Seed(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = n
}

// Position returns the absolute number of attempts made so far.
func (c *Cursor) Position() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// next returns the pool index for the coming attempt and advances the cursor.
// The advance is unconditional, so load spreads across credentials over time
// instead of index 0 taking all traffic under low load.
func (c *Cursor) next(size int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.n % size
	c.n++
	return idx
}

// KeyPool holds the ordered API credential list plus the rotation cursor.
// Credentials are loaded once at process start and shared read-only.
type KeyPool struct {
	keys   []string
	cursor *Cursor
}

func NewKeyPool(keys []string, cursor *Cursor) *KeyPool {
	if cursor == nil {
		cursor = NewCursor()
	}
	return &KeyPool{keys: keys, cursor: cursor}
}

func (p *KeyPool) Size() int {
	return len(p.keys)
}

// Do runs attempt with a credential picked at the rotation cursor. On a
// quota-exhaustion error it retries with the next credential, up to pool-size
// attempts total. Any other error class propagates immediately without
// rotation: those failures are deterministic for the input and a different
// credential would not help.
func (p *KeyPool) Do(ctx context.Context, attempt func(ctx context.Context, slot int, key string) error) error {
	if len(p.keys) == 0 {
		return apperr.ErrNoCredentials
	}

	var lastErr error
	for i := 0; i < len(p.keys); i++ {
		slot := p.cursor.next(len(p.keys))
		err := attempt(ctx, slot, p.keys[slot])
		if err == nil {
			return nil
		}
		if !apperr.IsQuotaExhausted(err) {
			return err
		}
		log.Printf("keypool: credential %d quota exhausted, rotating: %v", slot, err)
		lastErr = err
	}
	return fmt.Errorf("%w: %v", apperr.ErrAllQuotaExhausted, lastErr)
}
