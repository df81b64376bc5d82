package session

const (
	ErrGeneratingToken   = "error generating session token"
	ErrInvalidTTL        = "session ttl must be positive"
	ErrStoringSession    = "error storing session"
	ErrRetrievingSession = "error retrieving session"
	ErrEndingSession     = "error ending session"
	ErrPurgingSessions   = "error purging expired sessions"

	MsgSessionIssued  = "Session issued"
	MsgSessionEnded   = "Session ended"
	MsgSessionsPurged = "Expired sessions purged"
)
