package draft

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Step identifies a wizard step. Steps are linear; a draft may only advance
// when the current step validates cleanly.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepDetails
	StepContent
	StepReview
)

// Validation limits for the authoring wizard. Lengths count characters,
// not bytes, so multibyte text is measured the way the author sees it.
const (
	MaxTitleLength       = 200
	MinDescriptionLength = 10
	MaxPrice             = 999_999
)

// Errors maps a field path to a user-facing message. All violated rules for
// a step are collected; advancement is all-or-nothing.
type Errors map[string]string

// Add records a violation for a field, keeping the first message per field.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Messages returns the violation messages in no particular order, suitable
// for surfacing as a list of notifications.
func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, msg := range e {
		out = append(out, msg)
	}
	return out
}

// ValidateStep checks the rules for a single wizard step and returns every
// violation found. adminActor indicates whether the acting user is
// administrative; only then is an explicit tutor assignment required, a
// tutor authoring a course is assigned implicitly.
func ValidateStep(d Draft, step Step, adminActor bool) Errors {
	errs := Errors{}
	switch step {
	case StepBasicInfo:
		validateBasicInfo(d, adminActor, errs)
	case StepDetails:
		validateDetails(d, errs)
	case StepContent:
		validateContent(d, errs)
	case StepReview:
		// Review has no rules of its own; submission re-validates all
		// preceding steps via ValidateForSubmit.
	}
	return errs
}

// ValidateForSubmit re-validates every gating step, the terminal check run
// before a draft is handed to the submission orchestrator.
func ValidateForSubmit(d Draft, adminActor bool) Errors {
	errs := Errors{}
	validateBasicInfo(d, adminActor, errs)
	validateDetails(d, errs)
	validateContent(d, errs)
	return errs
}

func validateBasicInfo(d Draft, adminActor bool, errs Errors) {
	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		errs.Add("title", "Course title is required")
	case utf8.RuneCountInString(title) > MaxTitleLength:
		errs.Add("title", fmt.Sprintf("Course title must be at most %d characters", MaxTitleLength))
	}

	description := strings.TrimSpace(d.Description)
	switch {
	case description == "":
		errs.Add("description", "Course description is required")
	case utf8.RuneCountInString(description) < MinDescriptionLength:
		errs.Add("description", fmt.Sprintf("Course description must be at least %d characters", MinDescriptionLength))
	}

	if adminActor && d.TutorID == 0 {
		errs.Add("tutorId", "A tutor must be assigned to the course")
	}

	if d.Level != "" && !d.Level.Valid() {
		errs.Add("level", "Course level must be Beginner, Intermediate or Advanced")
	}
}

func validateDetails(d Draft, errs Errors) {
	if !d.IsPaid {
		return
	}
	price := strings.TrimSpace(d.Price)
	if price == "" {
		errs.Add("price", "Price is required for a paid course")
		return
	}
	value, err := strconv.ParseFloat(price, 64)
	switch {
	case err != nil:
		errs.Add("price", "Price must be a valid number")
	case value <= 0:
		errs.Add("price", "Price must be greater than 0")
	case value > MaxPrice:
		errs.Add("price", fmt.Sprintf("Price must be at most %d", MaxPrice))
	}
}

func validateContent(d Draft, errs Errors) {
	if len(d.Chapters) == 0 {
		errs.Add("chapters", "Add at least one chapter before submitting")
		return
	}
	for i, c := range d.Chapters {
		prefix := fmt.Sprintf("chapters[%d]", i)
		if strings.TrimSpace(c.Title) == "" {
			errs.Add(prefix+".title", fmt.Sprintf("Chapter %d needs a title", i+1))
		}
		if len(c.Materials) == 0 {
			errs.Add(prefix+".materials", fmt.Sprintf("Chapter %q needs at least one material", chapterLabel(c, i)))
			continue
		}
		for j, m := range c.Materials {
			validateMaterial(c, i, m, j, errs)
		}
	}
}

func validateMaterial(c Chapter, chapterIdx int, m Material, materialIdx int, errs Errors) {
	prefix := fmt.Sprintf("chapters[%d].materials[%d]", chapterIdx, materialIdx)
	label := materialLabel(m, materialIdx)

	if strings.TrimSpace(m.Title) == "" {
		errs.Add(prefix+".title", fmt.Sprintf("Material %d in chapter %q needs a title", materialIdx+1, chapterLabel(c, chapterIdx)))
	}
	if !m.Type.Valid() {
		errs.Add(prefix+".type", fmt.Sprintf("Material %q has an unknown type", label))
		return
	}
	if m.Type.FileBacked() {
		if !m.HasFile() {
			errs.Add(prefix+".file", fmt.Sprintf("Material %q needs a file", label))
		}
		return
	}
	// Link material
	if strings.TrimSpace(m.URL) == "" {
		errs.Add(prefix+".url", fmt.Sprintf("Material %q needs a URL", label))
	}
}

func chapterLabel(c Chapter, idx int) string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	return fmt.Sprintf("Chapter %d", idx+1)
}

func materialLabel(m Material, idx int) string {
	if t := strings.TrimSpace(m.Title); t != "" {
		return t
	}
	return fmt.Sprintf("Material %d", idx+1)
}
