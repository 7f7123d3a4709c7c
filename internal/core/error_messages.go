// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Users can quote the code when reporting a problem.
//
// # Paste Errors (PASTE001-PASTE099)
//
// Errors related to the pasted text itself:
//
//	PASTE001 - Malformed quoting: A quoted field is not closed or a quote is misplaced
//	           Action: Close every opening quote or remove stray quotes
//	           Patterns: "malformed quoting"
//
//	PASTE002 - Empty paste: Nothing was pasted
//	           Action: Paste rows copied from a spreadsheet or text file
//	           Patterns: "empty paste"
//
//	PASTE003 - Unsupported delimiter: The chosen separator is not supported
//	           Action: Choose comma, tab, semicolon, pipe or auto-detect
//	           Patterns: "unsupported delimiter"
//
//	PASTE004 - Paste too large: The text exceeds the size limit
//	           Action: Split the paste into smaller parts
//	           Patterns: "paste too large"
//
//	PASTE005 - No rows: The paste contains no data rows
//	           Action: Check that the text contains at least one row
//	           Patterns: "no data rows"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Unknown collection: The target collection does not exist
//	         Patterns: "unknown collection"
//
//	IMP002 - Unknown record type: The record type does not exist
//	         Patterns: "unknown record type"
//
//	IMP003 - System busy: Too many imports in progress
//	         Patterns: "too many concurrent imports"
//
//	IMP004 - Invalid catalog: The catalog file is invalid
//	         Patterns: "invalid catalog"
//
//	IMP005 - Not found: The requested item does not exist
//	         Patterns: "not found"
//
//	IMP006 - Request cancelled
//	         Patterns: "context canceled"
//
//	IMP007 - Request timeout
//	         Patterns: "context deadline exceeded"
//
//	IMP008 - Invalid request: The request body could not be read
//	         Patterns: "invalid request"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate: "duplicate key", "unique constraint", "violates unique"
//	DB002 - Foreign key: "foreign key constraint", "violates foreign key"
//	DB003 - Connection refused: "connection refused"
//	DB004 - Connection reset: "connection reset"
//	DB005 - Timeout: "timeout"
//	DB006 - Database busy: "database is locked", "deadlock"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are defined
// before general ones.

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgDuplicate = UserMessage{
		Message: "A record with this value already exists",
		Action:  "Review the paste for duplicate rows",
		Code:    "DB001",
	}
	msgForeignKey = UserMessage{
		Message: "Referenced collection or record type does not exist",
		Action:  "Reload the page and pick the destination again",
		Code:    "DB002",
	}
	msgDatabaseBusy = UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB006",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: the first matching pattern wins.
var errorPatterns = []errorPattern{
	// Paste errors
	{
		pattern: "malformed quoting",
		msg: UserMessage{
			Message: "A quoted field is not closed or a quote is misplaced",
			Action:  "Close every opening quote or remove stray quotes",
			Code:    "PASTE001",
		},
	},
	{
		pattern: "empty paste",
		msg: UserMessage{
			Message: "Nothing was pasted",
			Action:  "Paste rows copied from a spreadsheet or text file",
			Code:    "PASTE002",
		},
	},
	{
		pattern: "unsupported delimiter",
		msg: UserMessage{
			Message: "The chosen separator is not supported",
			Action:  "Choose comma, tab, semicolon, pipe or auto-detect",
			Code:    "PASTE003",
		},
	},
	{
		pattern: "paste too large",
		msg: UserMessage{
			Message: "The pasted text exceeds the size limit",
			Action:  "Split the paste into smaller parts",
			Code:    "PASTE004",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The paste contains no data rows",
			Action:  "Check that the text contains at least one row",
			Code:    "PASTE005",
		},
	},

	// Import errors
	{
		pattern: "unknown collection",
		msg: UserMessage{
			Message: "The target collection does not exist",
			Action:  "Pick a collection from the list",
			Code:    "IMP001",
		},
	},
	{
		pattern: "unknown record type",
		msg: UserMessage{
			Message: "The record type does not exist",
			Action:  "Pick a record type from the list",
			Code:    "IMP002",
		},
	},
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "IMP003",
		},
	},
	{
		pattern: "invalid catalog",
		msg: UserMessage{
			Message: "The catalog file is invalid",
			Action:  "Fix the catalog file and restart the service",
			Code:    "IMP004",
		},
	},
	{
		pattern: "not found",
		msg: UserMessage{
			Message: "The requested item does not exist",
			Action:  "Verify the identifier is correct",
			Code:    "IMP005",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP006",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller paste or try again later",
			Code:    "IMP007",
		},
	},

	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the submitted form or JSON body",
			Code:    "IMP008",
		},
	},

	// Database errors
	{pattern: "duplicate key", msg: msgDuplicate},
	{pattern: "unique constraint", msg: msgDuplicate},
	{pattern: "violates unique", msg: msgDuplicate},
	{pattern: "foreign key constraint", msg: msgForeignKey},
	{pattern: "violates foreign key", msg: msgForeignKey},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller paste or try again later",
			Code:    "DB005",
		},
	},
	{pattern: "database is locked", msg: msgDatabaseBusy},
	{pattern: "deadlock", msg: msgDatabaseBusy},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or the ERR000 fallback.
//
// Example:
//
//	msg := MapError(err) // err wraps tabular.ErrMalformedQuoting
//	// msg.Code == "PASTE001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a specific pattern rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
