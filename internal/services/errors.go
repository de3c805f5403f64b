// Package services holds the application use-cases: conversation CRUD and
// the chat turn that threads a user message through the completion service.
//
// Errors returned by this package wrap one of the sentinels below so handlers
// can map them to HTTP results with errors.Is.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyMessage is returned when a chat message is blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTitleRequired is returned when a conversation is created without a title.
	ErrTitleRequired = errors.New("title is required")

	// ErrConversationNotFound indicates that the referenced conversation does not exist.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrCompletionFailed wraps any failure of the completion service.
	ErrCompletionFailed = errors.New("failed to generate response")

	// ErrStore wraps unexpected failures of the conversation store.
	ErrStore = errors.New("store failure")
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
