package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	SessionCookieName = "session_token"
	BearerPrefix      = "Bearer "
)

// 列表查询上限
const (
	MaxResultsPerStudent  = 100
	MaxProgressResults    = 1000
	MaxPapersPerPage      = 100
	MaxDoubtsPerPage      = 100
	MaxNotificationsShown = 50
	RecentResultsLimit    = 10
	TrendPointsLimit      = 10
)
