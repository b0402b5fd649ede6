// internal/domain/homework/homework.go
package homework

import (
	"context"
	"encoding/json"
	"time"
)

// Payload is the raw JSON body returned by the homework statuses endpoint.
type Payload []byte

// RawRecord is one undecoded element of the "homeworks" list.
type RawRecord json.RawMessage

// Record is a single homework submission as reported by the API.
// Name and Status are pointers so that an absent field can be told apart from an empty one.
// The remaining fields are best effort: a value of an unexpected type is left empty.
type Record struct {
	ID              string
	Name            *string
	Status          *string
	LessonName      string
	ReviewerComment string
	DateUpdated     time.Time
}

// API fetches homework statuses updated since the given unix timestamp.
type API interface {
	HomeworkStatuses(ctx context.Context, fromDate int64) (Payload, error)
}

// Verdicts maps a review status code to the sentence sent to the user.
var Verdicts = map[string]string{
	"approved":  "Работа проверена: ревьюеру всё понравилось. Ура!",
	"reviewing": "Работа взята на проверку ревьюером.",
	"rejected":  "Работа проверена: у ревьюера есть замечания.",
}
