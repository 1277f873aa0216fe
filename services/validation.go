package services

import (
	"reflect"
	"strings"

	"legal_aid_app_go/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	return v
}

// validateStruct runs the field rules declared in struct tags and collects the violations
func validateStruct(s interface{}) *ValidationError {
	verr := NewValidationError()
	if err := validate.Struct(s); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				verr.Add(fieldPath(fe), validationMessage(fe))
			}
		} else {
			verr.Add("non_field_errors", err.Error())
		}
	}
	return verr
}

// fieldPath drops the top-level struct name from the namespace: "Client.name" -> "name",
// "CaseUpdate.meeting.meeting_date" -> "meeting.meeting_date"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// validationMessage returns a human-readable validation message
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}

// ValidateCaseOffice checks a case office before it is saved
func ValidateCaseOffice(o *models.CaseOffice) error {
	return validateStruct(o).OrNil()
}

// ValidateCaseType checks a case type before it is saved
func ValidateCaseType(t *models.CaseType) error {
	return validateStruct(t).OrNil()
}

// ValidateClient checks field rules and the conditional requirements between client fields
func ValidateClient(c *models.Client) error {
	verr := validateStruct(c)

	if c.OfficialIdentifier != nil && strings.TrimSpace(*c.OfficialIdentifier) != "" &&
		(c.OfficialIdentifierType == nil || *c.OfficialIdentifierType == "") {
		verr.Add("official_identifier_type", "Required when an official identifier is given")
	}
	if c.TranslatorNeeded && strings.TrimSpace(c.TranslatorLanguage) == "" {
		verr.Add("translator_language", "Required when a translator is needed")
	}
	if c.MaritalStatus == models.MaritalStatusCivilMarriage && strings.TrimSpace(c.CivilMarriageType) == "" {
		verr.Add("civil_marriage_type", "Required for a civil marriage")
	}
	if c.HasDisability && strings.TrimSpace(c.Disabilities) == "" {
		verr.Add("disabilities", "Required when the client has a disability")
	}

	return verr.OrNil()
}

// ValidateLegalCase checks a case. creating adds the rules that only apply to new cases.
func ValidateLegalCase(lc *models.LegalCase, creating bool) error {
	verr := validateStruct(lc)

	if lc.State != "" && !models.IsValidCaseState(lc.State) {
		verr.Add("state", "Must be one of: "+strings.Join(models.CaseStates, " "))
	}
	if lc.HasRespondent && strings.TrimSpace(lc.RespondentName) == "" {
		verr.Add("respondent_name", "Required when the case has a respondent")
	}
	if creating && len(lc.CaseOfficeIDs) == 0 {
		verr.Add("case_offices", "At least one case office is required")
	}

	return verr.OrNil()
}

// ValidateMeeting checks a meeting before it is saved
func ValidateMeeting(m *models.Meeting) error {
	return validateStruct(m).OrNil()
}

// ValidateNote checks a note before it is saved
func ValidateNote(n *models.Note) error {
	return validateStruct(n).OrNil()
}

// ValidateLegalCaseFile checks file metadata before it is saved
func ValidateLegalCaseFile(f *models.LegalCaseFile) error {
	verr := validateStruct(f)
	if f.Upload == "" {
		verr.Add("upload", "This field is required")
	}
	return verr.OrNil()
}

// ValidateCaseUpdate checks that an update carries exactly one of files, a meeting or a note
func ValidateCaseUpdate(u *models.CaseUpdate) error {
	verr := validateStruct(u)

	supplied := 0
	if len(u.FileIDs) > 0 {
		supplied++
	}
	if u.Meeting != nil {
		supplied++
	}
	if u.Note != nil {
		supplied++
	}
	switch {
	case supplied == 0:
		verr.Add("non_field_errors", "One of files, meeting or note is required")
	case supplied > 1:
		verr.Add("non_field_errors", "Only one of files, meeting or note may be given")
	}

	return verr.OrNil()
}

// ValidateUser checks the editable user profile
func ValidateUser(u *models.User) error {
	return validateStruct(u).OrNil()
}
