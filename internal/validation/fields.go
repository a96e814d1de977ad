package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourorg/quizapi/internal/models"
)

const (
	msgMissing     = "champ(s) obligatoire(s) manquant(s)"
	msgBlankAnswer = "les réponses ne peuvent pas être vides"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields under their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// maxbytes bounds a string by its byte length (bcrypt reads at most 72 bytes).
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})

	v.RegisterStructValidation(questionRules, models.QuestionCreateRequest{})
	return v
}

// questionRules rejects blank answers and a correct_answer outside the answers list.
func questionRules(sl validator.StructLevel) {
	q := sl.Current().Interface().(models.QuestionCreateRequest)
	for _, a := range q.Answers {
		if strings.TrimSpace(a) == "" {
			sl.ReportError(q.Answers, "answers", "Answers", "notblank", "")
			return
		}
	}
	if q.CorrectAnswer == nil || len(q.Answers) == 0 {
		return
	}
	if idx := *q.CorrectAnswer; idx < 0 || idx >= len(q.Answers) {
		sl.ReportError(q.CorrectAnswer, "correct_answer", "CorrectAnswer", "index", strconv.Itoa(len(q.Answers)-1))
	}
}

// FieldError represents a request body that failed validation.
type FieldError struct {
	Fields  []string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Fields, ", "), e.Message)
}

// Struct runs the validate tags of a request body and returns a *FieldError
// naming the offending fields.
func Struct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return toFieldError(verrs)
}

func toFieldError(verrs validator.ValidationErrors) *FieldError {
	fe := &FieldError{Message: msgMissing}
	var first validator.FieldError
	for _, e := range verrs {
		name := fieldName(e)
		if !contains(fe.Fields, name) {
			fe.Fields = append(fe.Fields, name)
		}
		if first == nil && e.Tag() != "required" {
			first = e
		}
	}
	// A single shape error is described; a batch of missing fields keeps the generic message.
	if first != nil {
		fe.Fields = []string{fieldName(first)}
		fe.Message = describe(first)
	}
	return fe
}

// fieldName strips the slice index dive adds (answers[1] → answers).
func fieldName(e validator.FieldError) string {
	name := e.Field()
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}
	return name
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "email":
		return "adresse e-mail invalide"
	case "oneof":
		return fmt.Sprintf("doit valoir %q ou %q", models.RoleUser, models.RoleAdmin)
	case "maxbytes":
		return fmt.Sprintf("%s octets maximum", e.Param())
	case "notblank":
		return msgBlankAnswer
	case "min":
		return fmt.Sprintf("au moins %s élément(s)", e.Param())
	case "index":
		return fmt.Sprintf("doit être un index entre 0 et %s", e.Param())
	case "gt":
		return fmt.Sprintf("doit être supérieur à %s", e.Param())
	}
	return msgMissing
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ValidateUser checks a create/update body: every field present, a plausible
// email, a password bcrypt can hash and a known role.
func ValidateUser(req models.UserRequest) error {
	return Struct(req)
}

// ValidateQuiz checks a quiz creation body.
func ValidateQuiz(req models.QuizCreateRequest) error {
	return Struct(req)
}

// ValidateQuestion checks a question creation body, including that
// correct_answer points at one of the answers.
func ValidateQuestion(req models.QuestionCreateRequest) error {
	return Struct(req)
}
