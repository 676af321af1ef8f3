package models

// GORM models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request status values. A request starts pending and may move between
// resolved and unresolved any number of times afterwards.
const (
	StatusPending    = "pending"
	StatusResolved   = "resolved"
	StatusUnresolved = "unresolved"
)

// KB entry provenance values.
const (
	SourceSeed       = "SEED"
	SourceManual     = "MANUAL"
	SourceSupervisor = "SUPERVISOR"
)

// HelpRequest represents an escalated caller question awaiting (or holding)
// a supervisor answer.
type HelpRequest struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	CallerName         string     `json:"caller_name" gorm:"not null"`
	Question           string     `json:"question" gorm:"not null"`
	Status             string     `json:"status" gorm:"default:'pending';check:status IN ('pending','resolved','unresolved')"`
	SupervisorResponse *string    `json:"supervisor_response"`
	CreatedAt          time.Time  `json:"created_at"`
	ResolvedAt         *time.Time `json:"resolved_at"`
	LivekitRoom        *string    `json:"livekit_room"`
	FollowUpSent       bool       `json:"follow_up_sent" gorm:"default:false"`
}

// KnowledgeBaseEntry is a learned question->answer pair. Entries are
// append-only; duplicates with the same pattern are allowed.
type KnowledgeBaseEntry struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	QuestionPattern string    `json:"question_pattern" gorm:"not null"`
	Answer          string    `json:"answer" gorm:"not null"`
	Source          string    `json:"source" gorm:"default:'SEED';check:source IN ('SEED','MANUAL','SUPERVISOR')"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Database interfaces for repository pattern
type HelpRequestRepository interface {
	Create(req *HelpRequest) error
	GetByID(id uint) (*HelpRequest, error)
	GetAll() ([]HelpRequest, error)
	GetByStatus(status string) ([]HelpRequest, error)
	Update(req *HelpRequest) error
}

type KnowledgeBaseRepository interface {
	Create(entry *KnowledgeBaseEntry) error
	GetByID(id string) (*KnowledgeBaseEntry, error)
	GetAll() ([]KnowledgeBaseEntry, error)
	GetBySource(source string) ([]KnowledgeBaseEntry, error)
	GetRecent(limit int) ([]KnowledgeBaseEntry, error)
}

// TableName methods for custom table names
func (HelpRequest) TableName() string        { return "help_requests" }
func (KnowledgeBaseEntry) TableName() string { return "knowledge_base" }

// Model validation methods
func (r *HelpRequest) Validate() error {
	if r.CallerName == "" {
		return fmt.Errorf("caller name is required")
	}
	if r.Question == "" {
		return fmt.Errorf("question is required")
	}
	validStatuses := map[string]bool{
		StatusPending:    true,
		StatusResolved:   true,
		StatusUnresolved: true,
	}
	if !validStatuses[r.Status] {
		return fmt.Errorf("invalid status: %s", r.Status)
	}
	// resolved_at tracks any departure from pending, and only that
	if (r.Status != StatusPending) != (r.ResolvedAt != nil) {
		return fmt.Errorf("resolved_at must be set exactly when status is not pending")
	}
	if r.FollowUpSent && r.SupervisorResponse == nil {
		return fmt.Errorf("follow-up cannot be sent without a supervisor response")
	}
	return nil
}

func (e *KnowledgeBaseEntry) Validate() error {
	if e.QuestionPattern == "" {
		return fmt.Errorf("question pattern is required")
	}
	if e.Answer == "" {
		return fmt.Errorf("answer is required")
	}
	validSources := map[string]bool{
		SourceSeed:       true,
		SourceManual:     true,
		SourceSupervisor: true,
	}
	if !validSources[e.Source] {
		return fmt.Errorf("invalid source: %s", e.Source)
	}
	return nil
}

// GORM hooks
func (r *HelpRequest) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = StatusPending
	}
	return r.Validate()
}

func (r *HelpRequest) BeforeUpdate(tx *gorm.DB) error {
	return r.Validate()
}

func (e *KnowledgeBaseEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Source == "" {
		e.Source = SourceSeed
	}
	return e.Validate()
}
