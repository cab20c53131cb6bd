package constants

// Environment variable keys
const (
	EnvAddr           = "HEROINES_ADDR"
	EnvHealthcheckURL = "HEROINES_HEALTHCHECK_URL"
)

// HTTP headers and content types
const (
	HeaderUserID      = "X-User-ID"
	HeaderContentType = "Content-Type"

	ContentTypeJSON = "application/json"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"
)

// Context keys set by middleware
const (
	CtxUserID = "user_id"
)

// Routes used by the backend router
const (
	RouteAPIPrefix        = "/api"
	RouteVersion          = "/version"
	RouteSpells           = "/spells"
	RouteStages           = "/stages"
	RouteFights           = "/fights"
	RouteFightState       = "/fights/:fightID/state"
	RouteFightResolve     = "/fights/:fightID/resolve"
	RouteFightEventsIndex = "/fights/:fightID/events-index"
	RouteFightStream      = "/fights/:fightID/stream"

	ParamFightID = "fightID"
)

// Media layout below the public media URL
const (
	MediaBattleBgsDir = "battleBgs"
	MediaAlliesDir    = "allies"
	MediaEnemiesDir   = "enemies"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrAuthRequired       = "Authentication required"
	ErrFightNotFound      = "Fight not found"
	ErrStateUnavailable   = "Fight state is no longer available"
	ErrInvalidEventsIndex = "Invalid events index"
	ErrStageNotFound      = "Stage not found"
	ErrStageLocked        = "Stage is locked"
	ErrNoAllies           = "At least one ally is required"
	ErrUnknownAlly        = "Unknown ally"
	ErrInvalidParty       = "Invalid party"
	ErrFailedStartFight   = "Failed to start fight"
	ErrFailedLoadFight    = "Failed to load fight"
	ErrFailedResolveTurn  = "Failed to resolve turn"
	ErrFailedUpdateIndex  = "Failed to update events index"
	ErrFailedListFights   = "Failed to list fights"
)

// Logging field names
const (
	LogFieldFightID  = "fight_id"
	LogFieldFightIDs = "fight_ids"
	LogFieldUserID   = "user_id"
	LogFieldStageID  = "stage_id"
	LogFieldStatus   = "status"
	LogFieldTurn     = "turn"
	LogFieldKey      = "key"
	LogFieldAddr     = "addr"
	LogFieldCount    = "count"
)
