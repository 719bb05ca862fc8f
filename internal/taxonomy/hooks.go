package taxonomy

import "trendscope/internal/models"

// PostProcessHook adjusts a RawTopic after fetch, before coercion.
// Hooks are registered per platform so source-specific corrections
// stay out of the merge loop.
type PostProcessHook func(*models.RawTopic)

const productHuntScoreFloor = 50

var postProcessHooks = map[Platform]PostProcessHook{
	// Raw vote counts on freshly listed products under-represent
	// relevance, so Product Hunt items get a minimum score.
	PlatformProductHunt: func(t *models.RawTopic) {
		if t.Score < productHuntScoreFloor {
			t.Score = productHuntScoreFloor
		}
	},
}

// ApplyPostProcess runs the platform's hook, if any, in place.
func ApplyPostProcess(t *models.RawTopic) {
	if hook, ok := postProcessHooks[Platform(t.Platform)]; ok {
		hook(t)
	}
}
