package model

import (
	"encoding/json"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskTypeMatch is the multi-part "match the following" task type; its
// isCorrect payload is an array of per-pair booleans.
const TaskTypeMatch = "match-the-following"

// Task belongs to a chapter. Once IsAnswered flips to true the task is
// immutable; resubmission is a no-op.
type Task struct {
	ID         string      `bson:"id,omitempty" json:"id,omitempty"`
	Question   string      `bson:"question" json:"question"`
	Type       string      `bson:"type,omitempty" json:"type,omitempty"`
	Options    []string    `bson:"options,omitempty" json:"options,omitempty"`
	Answer     string      `bson:"answer,omitempty" json:"answer,omitempty"`
	IsAnswered bool        `bson:"isAnswered" json:"isAnswered"`
	IsCorrect  Correctness `bson:"isCorrect" json:"isCorrect"`
	UserAnswer interface{} `bson:"userAnswer,omitempty" json:"userAnswer,omitempty"`
}

// Correctness is a bool on the wire for single-answer tasks and an array of
// bools for match-the-following tasks.
type Correctness struct {
	Parts   []bool `bson:"parts" json:"-"`
	IsArray bool   `bson:"isArray" json:"-"`
}

func CorrectnessBool(v bool) Correctness {
	return Correctness{Parts: []bool{v}}
}

func CorrectnessParts(parts []bool) Correctness {
	return Correctness{Parts: parts, IsArray: true}
}

func (c *Correctness) UnmarshalJSON(data []byte) error {
	var single bool
	if err := json.Unmarshal(data, &single); err == nil {
		c.Parts = []bool{single}
		c.IsArray = false
		return nil
	}
	var parts []bool
	if err := json.Unmarshal(data, &parts); err == nil {
		c.Parts = parts
		c.IsArray = true
		return nil
	}
	return errors.New("isCorrect must be a boolean or an array of booleans")
}

func (c Correctness) MarshalJSON() ([]byte, error) {
	if c.IsArray {
		parts := c.Parts
		if parts == nil {
			parts = []bool{}
		}
		return json.Marshal(parts)
	}
	return json.Marshal(c.Correct())
}

// Correct reports whether the answer counts as correct: the bool itself for
// single answers, at least one true entry for multi-part answers.
func (c Correctness) Correct() bool {
	for _, p := range c.Parts {
		if p {
			return true
		}
	}
	return false
}

// CorrectCount returns the number of true entries.
func (c Correctness) CorrectCount() int {
	n := 0
	for _, p := range c.Parts {
		if p {
			n++
		}
	}
	return n
}

// ChapterTasks is the stored task list for one (user, course, chapter).
type ChapterTasks struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID        string             `bson:"userId" json:"userId"`
	CourseID      string             `bson:"courseId" json:"courseId"`
	ChapterNumber int                `bson:"chapterNumber" json:"chapterNumber"`
	Tasks         []Task             `bson:"tasks" json:"tasks"`
}

// Chapter state within a roadmap. Completed flips to true exactly once, when
// every task in the chapter has been answered.
type Chapter struct {
	ChapterNumber int    `bson:"chapterNumber" json:"chapterNumber"`
	Title         string `bson:"title,omitempty" json:"title,omitempty"`
	Completed     bool   `bson:"completed" json:"completed"`
}

// Roadmap is a course owned by one user. Completed is a pure function of the
// chapters: true iff every chapter is completed.
type Roadmap struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    string             `bson:"userId" json:"userId"`
	CourseID  string             `bson:"courseId" json:"courseId"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Chapters  []Chapter          `bson:"chapters" json:"chapters"`
	Completed bool               `bson:"completed" json:"completed"`
}

// AllChaptersCompleted reports whether every chapter is done. False for an
// empty chapter list: a course with no chapters cannot be completed.
func (r Roadmap) AllChaptersCompleted() bool {
	if len(r.Chapters) == 0 {
		return false
	}
	for _, ch := range r.Chapters {
		if !ch.Completed {
			return false
		}
	}
	return true
}

// SubmitTaskRequest is the task-answer submission payload. Pointer and
// interface fields keep presence checks distinct from falsy values: chapter 0
// and isCorrect=false are legitimate.
type SubmitTaskRequest struct {
	Task       *Task        `json:"task"`
	Roadmap    string       `json:"roadmap"`
	Chapter    *int         `json:"chapter"`
	IsCorrect  *Correctness `json:"isCorrect"`
	UserAnswer interface{}  `json:"userAnswer"`
}
