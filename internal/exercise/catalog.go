package exercise

import "github.com/mindhaven/mindhaven/internal/models"

// ifsCatalog holds the authored exercise templates for the IFS label
// scheme. Process-wide read-only; initialized once, no runtime mutation.
var ifsCatalog = map[models.PartLabel][]models.ExerciseTemplate{
	models.PartProtector: {
		{
			Title:       "Dialogue with Your Protector",
			Description: "A journaling exercise to communicate with your protective part",
			Category:    models.CategoryJournaling,
			Instructions: []string{
				"Find a quiet space where you won't be interrupted",
				"Write a letter to your protector part, acknowledging its role",
				"Ask what it's trying to protect you from",
				"Write a response from this part's perspective",
				"Reflect on what you learned from this dialogue",
			},
		},
		{
			Title:       "Safe Place Visualization for Protectors",
			Description: "A visualization exercise to help your protector feel secure",
			Category:    models.CategoryVisualization,
			Instructions: []string{
				"Sit comfortably and close your eyes",
				"Visualize your protector part in its current form",
				"Imagine a safe, peaceful environment for this part",
				"Ask what would help it feel more secure",
				"Practice this visualization daily for 5-10 minutes",
			},
		},
	},
	models.PartExile: {
		{
			Title:       "Healing the Exile Meditation",
			Description: "A guided meditation to connect with and comfort exiled parts",
			Category:    models.CategoryMeditation,
			Instructions: []string{
				"Find a quiet, comfortable space",
				"Close your eyes and focus on your breath for 2 minutes",
				"Gently bring awareness to the exiled part",
				"Imagine your adult self comforting this younger, wounded part",
				"Offer this part what it needed but didn't receive in the past",
				"Practice this meditation for 10-15 minutes daily",
			},
		},
		{
			Title:       "Exile Unburdening Ritual",
			Description: "A symbolic ritual to help release burdens from exiled parts",
			Category:    models.CategoryReflection,
			Instructions: []string{
				"Create or find a small object to represent the burden",
				"Hold the object while connecting with the exiled part",
				"Acknowledge the pain this part has carried",
				"Release the object in a meaningful way (bury it, place it in flowing water, etc.)",
				"Journal about the experience afterward",
			},
		},
	},
	models.PartManager: {
		{
			Title:       "Appreciating Your Manager Parts",
			Description: "A reflection exercise to acknowledge the role of manager parts",
			Category:    models.CategoryReflection,
			Instructions: []string{
				"List all the ways your manager part has tried to keep you safe",
				"Acknowledge the difficult job this part has had",
				"Consider how this part developed and when it first appeared",
				"Reflect on how you might work collaboratively with this part",
				"Write a thank you note to this part",
			},
		},
		{
			Title:       "Manager Part Relaxation",
			Description: "A meditation to help manager parts ease their vigilance",
			Category:    models.CategoryMeditation,
			Instructions: []string{
				"Sit comfortably with eyes closed",
				"Locate the manager part in your body",
				"Breathe deeply into that area",
				"Assure this part that it can take a break while you're in a safe space",
				"Practice allowing this part to relax for 5-10 minutes",
			},
		},
	},
	models.PartFirefighter: {
		{
			Title:       "Alternative Responses for Firefighters",
			Description: "A journaling exercise to develop healthier coping strategies",
			Category:    models.CategoryJournaling,
			Instructions: []string{
				"Identify situations that trigger your firefighter part",
				"List the current coping mechanisms this part uses",
				"For each mechanism, brainstorm 2-3 alternative responses",
				"Create a plan to implement one new response this week",
				"Journal about the results",
			},
		},
		{
			Title:       "Grounding Techniques for Intense Emotions",
			Description: "Practical techniques to help when firefighter parts are activated",
			Category:    models.CategoryReflection,
			Instructions: []string{
				"Practice the 5-4-3-2-1 sensory grounding technique",
				"Try box breathing (4 counts in, 4 hold, 4 out, 4 hold)",
				"Use cold water or ice on wrists to interrupt intense emotional states",
				"Create a playlist of calming music",
				"Develop a list of self-soothing activities you can turn to",
			},
		},
	},
	models.PartSelf: {
		{
			Title:       "Connecting with Your Core Self",
			Description: "A meditation to strengthen connection with your authentic Self",
			Category:    models.CategoryMeditation,
			Instructions: []string{
				"Find a quiet space and sit comfortably",
				"Focus on your breath for several minutes",
				"Recall a time when you felt calm, clear, and compassionate",
				"Notice the qualities of your Self: curiosity, compassion, clarity, etc.",
				"Practice embodying these qualities for 10-15 minutes",
				"Return to this meditation regularly to strengthen Self energy",
			},
		},
		{
			Title:       "Self-Led Decision Making",
			Description: "A journaling exercise to practice making decisions from Self",
			Category:    models.CategoryJournaling,
			Instructions: []string{
				"Identify a decision you're currently facing",
				"Notice which parts have strong opinions about this decision",
				"Thank these parts for their input and ask them to step back",
				"Connect with your Self energy (calm, curious, compassionate)",
				"From this Self perspective, journal about what feels right",
				"Notice the difference between part-led and Self-led decisions",
			},
		},
	},
}

// emotionCatalog holds the authored templates for the emotion label scheme.
var emotionCatalog = map[models.PartLabel][]models.ExerciseTemplate{
	models.PartDisgust: {
		{
			Title:       "Naming What Repels You",
			Description: "A journaling exercise to examine reactions of disgust",
			Category:    models.CategoryJournaling,
			Instructions: []string{
				"Describe the situation that triggered the reaction",
				"Write down the bodily sensations that came with it",
				"Ask what boundary or value the reaction is defending",
				"Note one way to honor that boundary deliberately",
			},
		},
		{
			Title:       "Neutral Observation Practice",
			Description: "A reflection exercise to create distance from aversion",
			Category:    models.CategoryReflection,
			Instructions: []string{
				"Recall the triggering situation from a bystander's view",
				"Describe it in plain, factual language without judgment",
				"Notice what changes in your reaction as you do",
			},
		},
	},
	models.PartHappy: {
		{
			Title:       "Savoring Journal",
			Description: "A journaling exercise to extend positive moments",
			Category:    models.CategoryJournaling,
			Instructions: []string{
				"Write down three moments from today that felt good",
				"For each, describe what made it possible",
				"Note one way to invite a similar moment tomorrow",
			},
		},
		{
			Title:       "Gratitude Visualization",
			Description: "A visualization exercise to anchor gratitude in the body",
			Category:    models.CategoryVisualization,
			Instructions: []string{
				"Close your eyes and picture one person you're grateful for",
				"Imagine telling them why, in detail",
				"Notice where the feeling sits in your body",
				"Stay with that sensation for five slow breaths",
			},
		},
	},
	models.PartSad: {
		{
			Title:       "Letter to Your Sadness",
			Description: "A journaling exercise to give sadness a voice",
			Category:    models.CategoryJournaling,
			Instructions: []string{
				"Write a letter addressed to your sadness",
				"Ask it what it is mourning or missing",
				"Write its answer without editing",
				"Close by acknowledging what it told you",
			},
		},
		{
			Title:       "Compassionate Breathing",
			Description: "A meditation for sitting with heavy feelings",
			Category:    models.CategoryMeditation,
			Instructions: []string{
				"Sit comfortably and place a hand over your heart",
				"Breathe slowly and name the feeling on each exhale",
				"Offer yourself the words you'd offer a grieving friend",
				"Continue for 10 minutes",
			},
		},
	},
	models.PartFear: {
		{
			Title:       "Worry Inventory",
			Description: "A journaling exercise to size fears accurately",
			Category:    models.CategoryJournaling,
			Instructions: []string{
				"List every worry currently on your mind",
				"Mark which are in your control and which are not",
				"For each controllable one, write a single next step",
				"For the rest, write one sentence of acceptance",
			},
		},
		{
			Title:       "Safe Place Visualization",
			Description: "A visualization exercise for acute anxiety",
			Category:    models.CategoryVisualization,
			Instructions: []string{
				"Close your eyes and build a place where nothing is required of you",
				"Add detail: light, sound, temperature",
				"Return to your breath whenever the worry intrudes",
				"Practice daily for 5-10 minutes",
			},
		},
	},
	models.PartAngry: {
		{
			Title:       "Anger as Information",
			Description: "A reflection exercise to decode what anger protects",
			Category:    models.CategoryReflection,
			Instructions: []string{
				"Describe the moment the anger arrived",
				"Ask what line was crossed or what need was ignored",
				"Separate the need from the reaction",
				"Choose one constructive way to state the need",
			},
		},
		{
			Title:       "Discharge and Settle",
			Description: "A meditation to release physical charge safely",
			Category:    models.CategoryMeditation,
			Instructions: []string{
				"Find a private space and shake out your arms and hands",
				"Exhale audibly several times",
				"Then sit, lengthen your exhales, and count ten slow breaths",
			},
		},
	},
	models.PartNeutral: {
		{
			Title:       "Checking In with Yourself",
			Description: "A meditation to notice what is actually present",
			Category:    models.CategoryMeditation,
			Instructions: []string{
				"Sit quietly and scan your body from head to toe",
				"Name whatever you find without trying to change it",
				"Ask yourself what you need most right now",
				"Sit with the answer for a few minutes",
			},
		},
		{
			Title:       "One Honest Page",
			Description: "A journaling exercise for when nothing stands out",
			Category:    models.CategoryJournaling,
			Instructions: []string{
				"Set a timer for ten minutes",
				"Write continuously about your day without stopping",
				"Reread and underline anything that surprises you",
			},
		},
	},
}

// CatalogFor returns the read-only template catalog for a scheme. Unknown
// schemes fall back to IFS.
func CatalogFor(scheme models.PartScheme) map[models.PartLabel][]models.ExerciseTemplate {
	if scheme == models.SchemeEmotion {
		return emotionCatalog
	}
	return ifsCatalog
}

// DefaultLabelFor returns the label whose first template serves as the
// no-match fallback for a scheme.
func DefaultLabelFor(scheme models.PartScheme) models.PartLabel {
	if scheme == models.SchemeEmotion {
		return models.PartNeutral
	}
	return models.PartSelf
}
