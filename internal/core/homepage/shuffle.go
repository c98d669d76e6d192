package homepage

import (
	"math/rand/v2"
	"sync"

	"showcase-service/internal/core/domain"
)

// NewShuffler возвращает перемешивание Фишера-Йетса для Policy.Shuffle.
// rand.Rand не потокобезопасен, вызовы сериализуются.
func NewShuffler(src rand.Source) func([]domain.Property) {
	r := rand.New(src)
	var mu sync.Mutex
	return func(items []domain.Property) {
		mu.Lock()
		defer mu.Unlock()
		r.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
	}
}
