package entity

// RunSummary is the per-invocation result of a reminder processor and the
// body returned to the cron caller.
type RunSummary struct {
	UsersChecked              int `json:"usersChecked"`
	TasksMatched              int `json:"tasksMatched"`
	RemindersSent             int `json:"remindersSent"`
	RemindersSkippedDuplicate int `json:"remindersSkippedDuplicate"`
	RemindersFailed           int `json:"remindersFailed"`
}
