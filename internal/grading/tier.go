package grading

type TierLevel string

const (
	TierTop    TierLevel = "top"
	TierHigh   TierLevel = "high"
	TierMedium TierLevel = "medium"
	TierLow    TierLevel = "low"
)

// Tier is the display band for a score. It never affects grading.
type Tier struct {
	Level   TierLevel `json:"tier"`
	Emoji   string    `json:"emoji"`
	Message string    `json:"message"`
}

var tiers = map[TierLevel]Tier{
	TierTop:    {Level: TierTop, Emoji: "🏆", Message: "Отлично! Ты справился идеально! 🎉"},
	TierHigh:   {Level: TierHigh, Emoji: "⭐", Message: "Очень хороший результат! 👍"},
	TierMedium: {Level: TierMedium, Emoji: "👍", Message: "Неплохо, но можно лучше! 💪"},
	TierLow:    {Level: TierLow, Emoji: "💪", Message: "Попробуй еще раз, у тебя все получится! 🌟"},
}

func TierFor(percent int) Tier {
	switch {
	case percent >= 100:
		return tiers[TierTop]
	case percent >= 80:
		return tiers[TierHigh]
	case percent >= 60:
		return tiers[TierMedium]
	default:
		return tiers[TierLow]
	}
}

func (r Result) Tier() Tier {
	return TierFor(r.Percent)
}
