package kafka

// Topic definitions for event streaming
const (
	// Sync events
	TopicSyncCompleted = "sync.completed"

	// Insight events
	TopicInsightCreated = "insights.created"
)
