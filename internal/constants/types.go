package constants

// Tool names exposed by the bridge.
const (
	ToolExecutePattern    = "execute_pattern"
	ToolListPatterns      = "list_patterns"
	ToolGetPatternDetails = "get_pattern_details"
	ToolProcessURL        = "process_url"
	ToolProcessYouTube    = "process_youtube"
	ToolUpdatePatterns    = "update_patterns"
	ToolListModels        = "list_models"
)

// Transport type aliases.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)
