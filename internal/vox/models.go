package vox

// Subject discriminates what kind of entity an analytics id refers to.
type Subject string

const (
	SubjectUser  Subject = "USER"
	SubjectGroup Subject = "GROUP"
)

// UserID is the response of the username resolution endpoint.
type UserID struct {
	ID int64 `json:"id"`
}

// AIAnalytics is the precomputed analytics blob for a subject. The service
// answers with an empty object when it has no data yet, so a zero Report
// means "no data", not an error.
type AIAnalytics struct {
	Type         Subject `json:"type"`
	ID           int64   `json:"id"`
	MessageCount int     `json:"message_count"`
	Report       string  `json:"report"`
	Date         string  `json:"date"`
	Version      int     `json:"version"`
}

// Empty reports whether the service had no analytics data for the subject.
func (a *AIAnalytics) Empty() bool {
	return a == nil || a.Report == ""
}
