package domain

import "time"

type CommunicationType string

const (
	TypeEmail      CommunicationType = "email"
	TypeTranscript CommunicationType = "transcript"
	TypeDocument   CommunicationType = "document"
)

func (t CommunicationType) Valid() bool {
	switch t {
	case TypeEmail, TypeTranscript, TypeDocument:
		return true
	default:
		return false
	}
}

type CommunicationStatus string

const (
	StatusUploaded   CommunicationStatus = "uploaded"
	StatusProcessing CommunicationStatus = "processing"
	StatusReady      CommunicationStatus = "ready"
	StatusFailed     CommunicationStatus = "failed"
)

type Communication struct {
	ID                string              `json:"id"`
	Type              CommunicationType   `json:"type"`
	Subject           string              `json:"subject,omitempty"`
	Sender            string              `json:"sender,omitempty"`
	MeetingDate       string              `json:"meeting_date,omitempty"`
	Participants      []string            `json:"participants,omitempty"`
	ProjectID         string              `json:"project_id"`
	CustomerID        string              `json:"customer_id"`
	Filename          string              `json:"filename"`
	MimeType          string              `json:"mime_type"`
	StoragePath       string              `json:"storage_path"`
	Status            CommunicationStatus `json:"status"`
	Error             string              `json:"error,omitempty"`
	SentimentScore    *float64            `json:"sentiment_score,omitempty"`
	SentimentCategory SentimentCategory   `json:"sentiment_category,omitempty"`
	StaffTasks        []string            `json:"staff_tasks,omitempty"`
	HighPriorityCount int                 `json:"high_priority_count"`
	Summary           string              `json:"summary,omitempty"`
	RulesetVersion    string              `json:"ruleset_version,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

type CommunicationFilter struct {
	Type       CommunicationType
	ProjectID  string
	CustomerID string
}

// NewCommunication carries the caller-supplied part of a communication.
type NewCommunication struct {
	Type         CommunicationType
	Subject      string
	Sender       string
	MeetingDate  string
	Participants []string
	ProjectID    string
	CustomerID   string
	Filename     string
	MimeType     string
}

// TaskRecord is a persisted staff task row.
type TaskRecord struct {
	ID              string    `json:"id"`
	CommunicationID string    `json:"communication_id"`
	Position        int       `json:"position"`
	Text            string    `json:"text"`
	HighPriority    bool      `json:"high_priority"`
	CreatedAt       time.Time `json:"created_at"`
}

type TaskFilter struct {
	CommunicationID  string
	HighPriorityOnly bool
	Limit            int
}
