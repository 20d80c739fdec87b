package main

import (
	"encoding/json"
	"errors"
	"net/http"
)

// DefaultDateOfDeath is the placeholder suggested on the author
// creation form. Purely a form default, never enforced.
const DefaultDateOfDeath = "2018-01-05"

// RenewalRequest is the body of a loan renewal submission.
type RenewalRequest struct {
	RenewalDate string `json:"renewalDate" binding:"required"`
}

// LoanRequest is the body of an administrative loan action.
type LoanRequest struct {
	BorrowerID string `json:"borrowerId" binding:"required"`
	DueBack    string `json:"dueBack,omitempty"`
}

// LoginRequest is the body of a session creation call.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthorForm carries the pre-filled defaults of the author creation screen.
type AuthorForm struct {
	DateOfDeath string `json:"dateOfDeath"`
}

// DecodeRequestBody is a helper function to read the json content of any api request.
func DecodeRequestBody(r *http.Request, out interface{}) error {
	if r.Body == nil {
		return errors.New("invalid request body")
	}
	return json.NewDecoder(r.Body).Decode(out)
}

// ValidateAuthorRequestBody is a helper function to check if the content
// of an author creation or update request is valid.
func ValidateAuthorRequestBody(author *Author) error {
	if len(author.FirstName) == 0 {
		return missingFieldError("firstName")
	}

	if len(author.LastName) == 0 {
		return missingFieldError("lastName")
	}

	if len(author.DateOfBirth) != 0 {
		if _, err := ParseDate(author.DateOfBirth); err != nil {
			return fieldError{"dateOfBirth", "date of birth must be formatted as YYYY-MM-DD"}
		}
	}

	if len(author.DateOfDeath) != 0 {
		if _, err := ParseDate(author.DateOfDeath); err != nil {
			return fieldError{"dateOfDeath", "date of death must be formatted as YYYY-MM-DD"}
		}
	}

	return nil
}

// ValidateCreateBookRequestBody is a helper function to check if the
// content of a book creation request is valid.
func ValidateCreateBookRequestBody(book *Book) error {
	if len(book.Title) == 0 {
		return missingFieldError("title")
	}

	if len(book.AuthorID) == 0 {
		return missingFieldError("authorId")
	}

	return nil
}

// ValidateCreateInstanceRequestBody is a helper function to check if the
// content of a book instance creation request is valid. On-loan copies
// cannot be created directly: the loan endpoint owns that transition.
func ValidateCreateInstanceRequestBody(instance *BookInstance) error {
	if len(instance.BookID) == 0 {
		return missingFieldError("bookId")
	}

	if len(instance.Imprint) == 0 {
		return missingFieldError("imprint")
	}

	if len(instance.Status) == 0 {
		instance.Status = StatusMaintenance
	}
	if !instance.Status.IsValid() || instance.Status == StatusOnLoan {
		return fieldError{"status", "status must be one of available, maintenance, reserved"}
	}

	return nil
}

// ValidateLoginRequestBody is a helper function to check if the content
// of a session creation request is valid.
func ValidateLoginRequestBody(login *LoginRequest) error {
	if len(login.Username) == 0 {
		return missingFieldError("username")
	}

	if len(login.Password) == 0 {
		return missingFieldError("password")
	}

	return nil
}
