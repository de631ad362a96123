package render

import "math/rand"

// Tagline closes every rendered fragment and every text and document export.
const Tagline = "Generated with StudyNote.AI"

// FooterQuotes is the pool the decorative footer line is picked from.
var FooterQuotes = []string{
	"Study hard, dream big, and never stop learning.",
	"Small steps every day add up to big results.",
	"The expert in anything was once a beginner.",
	"Learning is a treasure that follows its owner everywhere.",
	"Success is the sum of small efforts, repeated day in and day out.",
	"Curiosity is the engine of achievement.",
	"An investment in knowledge pays the best interest.",
	"Don't watch the clock; do what it does. Keep going.",
}

// PickQuote returns an element of pool chosen uniformly by rnd, or "" for an
// empty pool.
func PickQuote(pool []string, rnd *rand.Rand) string {
	if len(pool) == 0 {
		return ""
	}
	if rnd == nil {
		return pool[rand.Intn(len(pool))]
	}
	return pool[rnd.Intn(len(pool))]
}
