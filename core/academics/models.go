package academics

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/chuo/core"
)

type Subject struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Code        string       `json:"code"`
	TeacherID   string       `json:"teacher_id"`
	Assignments []Assignment `json:"assignments"`
}

type Assignment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DueDate     time.Time `json:"due_date"`
	Description string    `json:"description"`
}

type Mark struct {
	ID            string `json:"id"`
	SubjectID     string `json:"subject_id"`
	StudentID     string `json:"student_id"`
	MarksObtained int    `json:"marks_obtained"`
	TotalMarks    int    `json:"total_marks"`
	ExamType      string `json:"exam_type"`
}

type NewSubject struct {
	Name      string `json:"name" validate:"required"`
	Code      string `json:"code" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"required"`
}

func (ns *NewSubject) Validate(validate *validator.Validate, _ ut.Translator) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = core.CleanString(ns.Code, true /* lower */)
	return validate.Struct(ns)
}

type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	Description string    `json:"description"`
}

func (na *NewAssignment) Validate(validate *validator.Validate, _ ut.Translator) error {
	na.Title = core.CleanString(na.Title)
	return validate.Struct(na)
}

// NewMark records an exam result; obtained marks may not exceed the total.
type NewMark struct {
	SubjectID     string `json:"subject_id" validate:"required"`
	StudentID     string `json:"student_id" validate:"required"`
	MarksObtained int    `json:"marks_obtained" validate:"min=0"`
	TotalMarks    int    `json:"total_marks" validate:"required,min=1,gtefield=MarksObtained"`
	ExamType      string `json:"exam_type" validate:"required"`
}

func (nm *NewMark) Validate(validate *validator.Validate, _ ut.Translator) error {
	nm.ExamType = core.CleanString(nm.ExamType)
	return validate.Struct(nm)
}
