package frontend_domain

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Error     string
	Success   string
	LoggedIn  bool   // a sessionid cookie is present
	CSRFToken string // CSRF token for form submissions
	Path      string // current path, used to build redirectTo links
	Limits    FormLimits
}

// FormLimits mirrors the required-field constraints of the authoring forms.
type FormLimits struct {
	PasswordMinLen    int
	StoryTitleMaxLen  int
	ChapterNameMaxLen int
	SynopsisMaxLen    int
}

// DefaultFormLimits are the bounds rendered into form inputs.
var DefaultFormLimits = FormLimits{
	PasswordMinLen:    8,
	StoryTitleMaxLen:  200,
	ChapterNameMaxLen: 200,
	SynopsisMaxLen:    2000,
}
