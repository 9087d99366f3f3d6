package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("duplicate entry")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrLoad               = errors.New("artifact load failed")
	ErrVocabularyMismatch = errors.New("vocabulary mismatch")
	ErrUnknownTopic       = errors.New("unknown topic")
	ErrInsufficientTopics = errors.New("insufficient topics")
)

// LoadError reports a missing, corrupt or version-mismatched artifact.
type LoadError struct {
	Artifact string // "vocabulary", "model", "labels", "bundle"
	Source   string // file path, bundle id, etc.
	Err      error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load %s: %v", e.Artifact, e.Err)
	}
	return fmt.Sprintf("load %s from %s: %v", e.Artifact, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// VocabularyMismatchError reports a model and vocabulary that were not
// built together.
type VocabularyMismatchError struct {
	Artifact string
	Want     string
	Got      string
	Detail   string
}

func (e *VocabularyMismatchError) Error() string {
	msg := fmt.Sprintf("%s does not match vocabulary: want %s, got %s", e.Artifact, e.Want, e.Got)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *VocabularyMismatchError) Is(target error) bool { return target == ErrVocabularyMismatch }

// UnknownTopicError means a distribution referenced a topic the label table
// does not know about.
type UnknownTopicError struct {
	Topic int
}

func (e *UnknownTopicError) Error() string {
	return fmt.Sprintf("topic %d has no label", e.Topic)
}

func (e *UnknownTopicError) Is(target error) bool { return target == ErrUnknownTopic }

// InsufficientTopicsError is returned by strict rankers when fewer than k
// topics are available.
type InsufficientTopicsError struct {
	Have int
	Want int
}

func (e *InsufficientTopicsError) Error() string {
	return fmt.Sprintf("distribution has %d topics, %d requested", e.Have, e.Want)
}

func (e *InsufficientTopicsError) Is(target error) bool { return target == ErrInsufficientTopics }
