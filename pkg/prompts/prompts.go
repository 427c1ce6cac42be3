// Package prompts rotates through a fixed list of book-club questions, one
// per calendar day.
package prompts

import "time"

var rotation = []string{
	"Which character would you want to have dinner with, and why?",
	"What would this story look like set a hundred years later?",
	"Which scene would you rewrite, and how?",
	"What question would you ask the author if you could?",
	"Which minor character deserves their own book?",
	"What does the title mean by the final page?",
	"Which moment changed how you saw the protagonist?",
	"What would you cut without losing the story?",
	"Which line stayed with you after you closed the book?",
	"Who in your life should read this next?",
	"What does the setting do that dialogue cannot?",
	"Where does the story ask you to forgive someone?",
	"What is the book afraid of?",
	"Which chapter works as a story on its own?",
}

// ForDate returns the prompt for the given calendar day. The same day always
// yields the same prompt, and consecutive days walk the list in order.
func ForDate(t time.Time) string {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	days := int(midnight.Unix() / 86400)

	return rotation[days%len(rotation)]
}

// Today returns the prompt for the current day.
func Today() string {
	return ForDate(time.Now())
}

// Count reports how many prompts the rotation holds.
func Count() int {
	return len(rotation)
}
