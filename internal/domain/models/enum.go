package models

type Status string
type Priority string

const (
	// StatusYetToStart indicates no identifier of the batch has been processed yet
	StatusYetToStart Status = "yet_to_start"

	// StatusTriggered indicates the batch has been picked up by the scheduler
	StatusTriggered Status = "triggered"

	// StatusCompleted indicates every identifier of the batch has been processed
	StatusCompleted Status = "completed"
)

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// priorityWeights orders priorities for the queue (lower weight = dequeued first)
var priorityWeights = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// statusRank orders statuses along the lifecycle so transitions can be
// checked for regression
var statusRank = map[Status]int{
	StatusYetToStart: 0,
	StatusTriggered:  1,
	StatusCompleted:  2,
}

// Weight returns the queue ordering weight of the priority
func (p Priority) Weight() int {
	return priorityWeights[p]
}

// IsValid reports whether the priority is one of HIGH, MEDIUM, LOW
func (p Priority) IsValid() bool {
	_, ok := priorityWeights[p]
	return ok
}

// Rank returns the lifecycle position of the status
func (s Status) Rank() int {
	return statusRank[s]
}
