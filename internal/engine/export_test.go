package engine

// White-box exports for tests.

type Trigger = trigger

const (
	TriggerNone          = triggerNone
	TriggerRitual        = triggerRitual
	TriggerWeekdayCrisis = triggerWeekdayCrisis
	TriggerLateEvening   = triggerLateEvening
	TriggerSilence       = triggerSilence
)

var (
	ClassifyTrigger = classifyTrigger
	DetectCrisis    = detectCrisis
	ScanContextTags = scanContextTags
)
