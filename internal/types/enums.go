package types

type PromotionMode string

const (
	PromotionModeCopy PromotionMode = "copy"
	PromotionModeMove PromotionMode = "move"
)

type PromotionScope string

const (
	// PromotionScopeVersion promotes one version directory per group.
	PromotionScopeVersion PromotionScope = "version"
	// PromotionScopeTree promotes whole paths and recalculates destination
	// metadata afterwards.
	PromotionScopeTree PromotionScope = "tree"
)

type PromotionOutcome string

const (
	PromotionOutcomePromoted PromotionOutcome = "promoted"
	PromotionOutcomeSkipped  PromotionOutcome = "skipped"
)

type VersionOrdering string

const (
	VersionOrderingLexical  VersionOrdering = "lexical"
	VersionOrderingSemantic VersionOrdering = "semantic"
)

const (
	IdentifierLatest = "latest"
	IdentifierWeekly = "weekly"
	IdentifierStable = "stable"
)
