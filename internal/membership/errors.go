package membership

import (
	"errors"
	"net/http"

	appErrors "github.com/noah-isme/classroll-api/pkg/errors"
)

// ErrGroupNotFound is returned when an update targets a missing group.
var ErrGroupNotFound = appErrors.New("GROUP_NOT_FOUND", http.StatusNotFound, "group not found")

// Conflict lists the students that blocked a membership change because
// they already belong to another group.
type Conflict struct {
	StudentIDs []string `json:"student_ids"`
}

// UnknownReferences lists ids that do not exist in the working set.
type UnknownReferences struct {
	StudentIDs []string `json:"student_ids,omitempty"`
	ClassIDs   []string `json:"class_ids,omitempty"`
}

func conflictError(ids []string) error {
	return appErrors.WithDetails(appErrors.ErrMembershipConflict, "", Conflict{StudentIDs: ids})
}

func unknownError(students, classes []string) error {
	return appErrors.WithDetails(appErrors.ErrUnknownReference, "", UnknownReferences{StudentIDs: students, ClassIDs: classes})
}

func validationError(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

// ConflictingStudents extracts the blocking student ids from a membership
// conflict rejection. It returns nil for any other error.
func ConflictingStudents(err error) []string {
	var appErr *appErrors.Error
	if !errors.As(err, &appErr) {
		return nil
	}
	if conflict, ok := appErr.Details.(Conflict); ok {
		return conflict.StudentIDs
	}
	return nil
}

// IsRejection reports whether err is a reported rejection rather than an
// unexpected failure. Rejections leave the working set unchanged.
func IsRejection(err error) bool {
	return errors.Is(err, appErrors.ErrMembershipConflict) ||
		errors.Is(err, appErrors.ErrUnknownReference) ||
		errors.Is(err, appErrors.ErrValidation) ||
		errors.Is(err, ErrGroupNotFound)
}
