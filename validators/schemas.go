package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// LessonInput is the accepted shape of a lesson payload
type LessonInput struct {
	Title           string `json:"title" validate:"required,min=3,max=200"`
	Description     string `json:"description" validate:"max=2000"`
	Type            string `json:"type" validate:"required,oneof=VIDEO TEXT QUIZ ASSIGNMENT"`
	Content         string `json:"content"`
	VideoURL        string `json:"video_url" validate:"omitempty,url"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
	SortOrder       int    `json:"sort_order" validate:"gte=0"`
	IsPublished     bool   `json:"is_published"`
	IsPreview       bool   `json:"is_preview"`
}

// LessonUpdateInput only touches the fields that are set
type LessonUpdateInput struct {
	Title           *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	Type            *string `json:"type" validate:"omitempty,oneof=VIDEO TEXT QUIZ ASSIGNMENT"`
	Content         *string `json:"content"`
	VideoURL        *string `json:"video_url" validate:"omitempty,url"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gte=0"`
	SortOrder       *int    `json:"sort_order" validate:"omitempty,gte=0"`
	IsPublished     *bool   `json:"is_published"`
	IsPreview       *bool   `json:"is_preview"`
}

// ModuleInput is the accepted shape of a module payload, with optional nested lessons
type ModuleInput struct {
	Title       string        `json:"title" validate:"required,min=3,max=200"`
	Description string        `json:"description" validate:"max=2000"`
	SortOrder   int           `json:"sort_order" validate:"gte=0"`
	Lessons     []LessonInput `json:"lessons" validate:"dive"`
}

type ModuleUpdateInput struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	SortOrder   *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

// CourseInput is the accepted shape of a course creation payload
type CourseInput struct {
	Title            string   `json:"title" validate:"required,min=5,max=200"`
	Description      string   `json:"description" validate:"required,min=20"`
	ShortDescription string   `json:"short_description" validate:"max=300"`
	CategoryID       *uint    `json:"category_id" validate:"omitempty,gt=0"`
	Level            string   `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED ALL"`
	Language         string   `json:"language" validate:"omitempty,min=2,max=10"`
	ThumbnailURL     string   `json:"thumbnail_url" validate:"omitempty,url"`
	PreviewVideoURL  string   `json:"preview_video_url" validate:"omitempty,url"`
	BasePrice        *float64 `json:"base_price" validate:"omitempty,gte=0"`
	CurrentPrice     *float64 `json:"current_price" validate:"omitempty,gte=0"`
	Tags             []string `json:"tags" validate:"max=10,dive,required,max=30"`
	IsPublished      bool     `json:"is_published"`
}

type CourseUpdateInput struct {
	Title            *string   `json:"title" validate:"omitempty,min=5,max=200"`
	Description      *string   `json:"description" validate:"omitempty,min=20"`
	ShortDescription *string   `json:"short_description" validate:"omitempty,max=300"`
	CategoryID       *uint     `json:"category_id" validate:"omitempty,gt=0"`
	Level            *string   `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED ALL"`
	Language         *string   `json:"language" validate:"omitempty,min=2,max=10"`
	ThumbnailURL     *string   `json:"thumbnail_url" validate:"omitempty,url"`
	PreviewVideoURL  *string   `json:"preview_video_url" validate:"omitempty,url"`
	BasePrice        *float64  `json:"base_price" validate:"omitempty,gte=0"`
	CurrentPrice     *float64  `json:"current_price" validate:"omitempty,gte=0"`
	Tags             *[]string `json:"tags" validate:"omitempty,max=10,dive,required,max=30"`
}

// UploadRequest is the body of POST /api/upload
type UploadRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=image video document"`
}

type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=STUDENT TUTOR"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TutorProfileInput struct {
	Headline   string  `json:"headline" validate:"required,min=3,max=120"`
	Bio        string  `json:"bio" validate:"max=5000"`
	Expertise  string  `json:"expertise" validate:"max=200"`
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type CategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=60"`
	Slug string `json:"slug" validate:"omitempty,max=60"`
}

type ReorderInput struct {
	ModuleIDs []uint `json:"module_ids" validate:"required,min=1,dive,gt=0"`
}

// Validate checks v against its struct tags.
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// FirstIssue renders the first validation problem as a human message.
// Non-validation errors are returned as-is.
func FirstIssue(err error) string {
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return describe(verrs[0])
	}
	return err.Error()
}

// FieldErrors maps every failing field to its message.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			out["body"] = err.Error()
		}
		return out
	}
	for _, fe := range verrs {
		field := fieldPath(fe)
		if _, seen := out[field]; !seen {
			out[field] = describe(fe)
		}
	}
	return out
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	field := fieldPath(fe)
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
