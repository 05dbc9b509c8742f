package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume JSON file",
	Long: `Checks a resume JSON file against the resume schema and the field rules the
API applies on create. With --schema the file is checked against that schema only.`,
	RunE: runValidate,
}

var (
	validateInput  string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to JSON file (required)")
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Path to a JSON Schema file (optional)")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	return validateFile(cmd.OutOrStdout(), validateInput, validateSchema)
}

// validateFile prints the outcome and returns an error when validation fails
func validateFile(w io.Writer, path, schemaPath string) error {
	var err error
	if schemaPath != "" {
		err = schemas.ValidateJSON(schemaPath, path)
	} else {
		resume, loadErr := loadResumeFile(path)
		if loadErr == nil {
			loadErr = resume.Validate()
		}
		err = loadErr
	}

	problems, ok := fieldProblems(err)
	if !ok {
		return err
	}

	observability.NewPrinter(w).PrintValidation(problems)
	if len(problems) > 0 {
		return fmt.Errorf("%d validation error(s)", len(problems))
	}
	return nil
}

// fieldProblems lists the field failures in err. ok is false when err is not
// a validation failure.
func fieldProblems(err error) ([]observability.FieldProblem, bool) {
	if err == nil {
		return nil, true
	}

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		problems := make([]observability.FieldProblem, 0, len(schemaErr.Errors))
		for _, fe := range schemaErr.Errors {
			problems = append(problems, observability.FieldProblem{Field: fe.Field, Message: fe.Message})
		}
		return problems, true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		problems := make([]observability.FieldProblem, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			field := fe.Namespace()
			if _, rest, found := strings.Cut(field, "."); found {
				field = rest
			}
			problems = append(problems, observability.FieldProblem{Field: field, Message: fmt.Sprintf("failed %q rule", fe.Tag())})
		}
		return problems, true
	}

	return nil, false
}
