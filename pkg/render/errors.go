package render

import "fmt"

// TemplateError represents an error parsing or executing a page template.
type TemplateError struct {
	Template string
	Cause    error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Template, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
