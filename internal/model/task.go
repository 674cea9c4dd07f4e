package model

import "time"

// Task is a reminder or remediation step attached to one plan
type Task struct {
	ID        string    `json:"id"`
	PlanID    int64     `json:"planId"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTask creates an incomplete task
func NewTask(id string, planID int64, text string, now time.Time) Task {
	return Task{
		ID:        id,
		PlanID:    planID,
		Text:      text,
		Completed: false,
		CreatedAt: now,
	}
}

// Toggle flips completion; there is no terminal state
func (t *Task) Toggle() {
	t.Completed = !t.Completed
}

// ChecklistItem is one generated entry of a plan's day-by-day checklist
type ChecklistItem struct {
	ID    string `json:"id"`
	Day   int    `json:"day"`
	Date  string `json:"date"`
	Title string `json:"title"`
}
