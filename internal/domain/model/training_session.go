package model

import "time"

type TrainingStatus string

const (
	TrainingStatusQueued              TrainingStatus = "queued"
	TrainingStatusCollectingData      TrainingStatus = "collecting_data"
	TrainingStatusProcessingDocuments TrainingStatus = "processing_documents"
	TrainingStatusSettingUpWorkflows  TrainingStatus = "setting_up_workflows"
	TrainingStatusTraining            TrainingStatus = "training"
	TrainingStatusValidating          TrainingStatus = "validating"
	TrainingStatusCompleted           TrainingStatus = "completed"
	TrainingStatusFailed              TrainingStatus = "failed"
)

// Terminal reports whether the status is final. Terminal sessions are
// immutable: every mutator on TrainingSession is a no-op afterwards.
func (s TrainingStatus) Terminal() bool {
	return s == TrainingStatusCompleted || s == TrainingStatusFailed
}

// TrainedModel statuses produced by the training and validation phases.
const (
	ModelStatusTrained            = "trained"
	ModelStatusFailed             = "failed"
	ModelStatusDeployed           = "deployed"
	ModelStatusRequiresRetraining = "requires_retraining"
)

type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
}

type TrainedModel struct {
	Provider  string  `json:"provider"`
	ModelName string  `json:"modelName"`
	Accuracy  float64 `json:"accuracy"`
	Status    string  `json:"status"`
}

// TrainingConfig is the client-supplied configuration for one session.
type TrainingConfig struct {
	Modules                  []string `json:"modules"`
	DataSources              []string `json:"dataSources"`
	TrainingMode             string   `json:"trainingMode"`
	EnableDocumentProcessing bool     `json:"enableDocumentProcessing"`
}

// TrainingSession is one long-running multi-phase training job. It is
// owned exclusively by the orchestrator goroutine that was launched for
// it; all other parties only ever see snapshots produced by Clone.
type TrainingSession struct {
	ID            string         `json:"sessionId"`
	Status        TrainingStatus `json:"status"`
	Progress      int            `json:"progress"`
	Modules       []string       `json:"modules"`
	DataSources   []string       `json:"dataSources,omitempty"`
	TrainingMode  string         `json:"trainingMode,omitempty"`
	Logs          []LogEntry     `json:"logs"`
	ModelsTrained []TrainedModel `json:"modelsTrained"`
	StartTime     time.Time      `json:"startTime"`
	EndTime       *time.Time     `json:"endTime,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// Clone returns a deep copy so readers never alias the live record.
func (s *TrainingSession) Clone() *TrainingSession {
	cp := *s
	cp.Modules = append([]string(nil), s.Modules...)
	cp.DataSources = append([]string(nil), s.DataSources...)
	cp.Logs = append([]LogEntry(nil), s.Logs...)
	cp.ModelsTrained = append([]TrainedModel(nil), s.ModelsTrained...)
	if s.EndTime != nil {
		t := *s.EndTime
		cp.EndTime = &t
	}
	return &cp
}

// AppendLog appends one entry; the log is never truncated or reordered.
func (s *TrainingSession) AppendLog(level, message string) {
	s.Logs = append(s.Logs, LogEntry{Timestamp: time.Now(), Message: message, Level: level})
}

// SetProgress raises progress, clamped to [0,100]. Progress is monotone:
// a lower value than the current one is ignored.
func (s *TrainingSession) SetProgress(p int) {
	if s.Status.Terminal() {
		return
	}
	if p > 100 {
		p = 100
	}
	if p > s.Progress {
		s.Progress = p
	}
}

// EnterPhase moves the session into the given phase. Terminal sessions
// are never re-entered.
func (s *TrainingSession) EnterPhase(status TrainingStatus) {
	if s.Status.Terminal() {
		return
	}
	s.Status = status
}

// Complete marks the session terminal-successful. progress==100 holds
// exactly for completed sessions.
func (s *TrainingSession) Complete() {
	if s.Status.Terminal() {
		return
	}
	s.Status = TrainingStatusCompleted
	s.Progress = 100
	now := time.Now()
	s.EndTime = &now
}

// Fail marks the session terminal-failed and records the cause. Progress
// already recorded is not rolled back.
func (s *TrainingSession) Fail(cause string) {
	if s.Status.Terminal() {
		return
	}
	s.Status = TrainingStatusFailed
	s.Error = cause
	now := time.Now()
	s.EndTime = &now
}
